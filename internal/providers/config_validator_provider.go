package providers

import (
	"fmt"
	"github.com/gookit/validate"
	"nsxd/internal/structures"
	"strings"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	v.AddValidator("unixPath", func(val string) bool {
		return strings.HasPrefix(val, "/")
	})

	if !v.Validate() {
		return v.Errors
	}

	// The settle delay eats into the deadline budget, so an inverted pair
	// would make the settle timer unreachable.
	if cv.conf.Timers.Settle >= cv.conf.Timers.Deadline {
		return fmt.Errorf("timers.settle (%s) must be shorter than timers.deadline (%s)",
			cv.conf.Timers.Settle, cv.conf.Timers.Deadline)
	}

	return nil
}
