package app

import "go.uber.org/zap"

// logStatus writes every relayed line to the log.
type logStatus struct {
	log *zap.SugaredLogger
}

func (s logStatus) StatusChanged(line string) {
	s.log.Infow("relayed", "line", line)
}
