package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

// FlagThrottle delays every response when on.
const FlagThrottle = "throttle"

// UtilService holds the runtime switches toggled through /util.
type UtilService struct {
	throttle atomic.Bool
	log      zerolog.Logger
}

var _ ports.UtilService = (*UtilService)(nil)

func NewUtilService(throttle bool, log zerolog.Logger) *UtilService {
	s := &UtilService{log: log}
	s.throttle.Store(throttle)
	return s
}

func (s *UtilService) Flag(_ context.Context, name string) (bool, error) {
	switch name {
	case FlagThrottle:
		return s.throttle.Load(), nil
	default:
		return false, domain.NotFound(fmt.Sprintf("Service %q is not supported", name))
	}
}

func (s *UtilService) Set(_ context.Context, values map[string]bool) error {
	if len(values) == 0 {
		return domain.RequestErr("Missing fields")
	}
	for name := range values {
		if name != FlagThrottle {
			return domain.RequestErr(fmt.Sprintf("Service %q is not supported", name))
		}
	}
	on := values[FlagThrottle]
	s.throttle.Store(on)
	s.log.Info().Str("flag", FlagThrottle).Bool("enabled", on).Msg("util flag changed")
	return nil
}

func (s *UtilService) Throttled() bool {
	return s.throttle.Load()
}
