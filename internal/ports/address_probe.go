package ports

import (
	"context"
	"time"
)

type AddressState int

const (
	AddressUnknown AddressState = iota
	AddressAlive
	AddressDown
)

func (s AddressState) String() string {
	switch s {
	case AddressAlive:
		return "alive"
	case AddressDown:
		return "down"
	default:
		return "unknown"
	}
}

type AddressProbe interface {
	Probe(ctx context.Context, address string, timeout time.Duration) (AddressState, error)
}
