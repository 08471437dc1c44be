package goajax

import (
	"fmt"

	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/host"
)

type InstallOptions struct {
	// Mounted runs after every host instance mounted
	Mounted func()
}

// Install hands the host the request entry point and the lifecycle mixin.
// Content swaps need an installed host.
func (s *AjaxSvc) Install(h host.Host, opts InstallOptions) error {
	if h == nil {
		return dto.ErrNoHost
	}
	mixin := host.Lifecycle{
		Created: func() {
			s.HistoryVersion()
			s.setComponentState(false)
		},
		Mounted: func() {
			if opts.Mounted != nil {
				opts.Mounted()
			}
		},
	}
	if err := h.Install(s.Do, mixin); err != nil {
		return fmt.Errorf("install host: %w", err)
	}

	s.hostMu.Lock()
	s.host = h
	s.hostMu.Unlock()
	s.logDebug("Ajax service installed into host")
	return nil
}
