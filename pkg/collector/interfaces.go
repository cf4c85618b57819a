package collector

//go:generate mockgen -destination=mock_collector.go -package=collector github.com/hostpulse/hostpulse/pkg/collector Clock,Ticker

import "time"

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}
