package entity

import (
	"errors"
	"time"
)

const (
	CommandPowerOn  = "poweron"
	CommandPowerOff = "poweroff"
	CommandReboot   = "reboot"
)

var (
	ErrAlreadyPoweredOn  = errors.New("VPS is already powered on")
	ErrAlreadyPoweredOff = errors.New("VPS is already powered off")
	ErrRebootWhileOff    = errors.New("VPS is off and cannot be rebooted")
)

// PowerTransition is the outcome of applying a power command to an instance.
type PowerTransition struct {
	Status      string
	LastStartup *time.Time
}

// ApplyPowerCommand resolves the transition for a command against the
// current status. Pending counts as off: poweron and poweroff are accepted,
// reboot is rejected. Rejections return an error and no transition.
func ApplyPowerCommand(status, command string, now time.Time) (PowerTransition, error) {
	switch command {
	case CommandPowerOn:
		if status == StatusOn {
			return PowerTransition{}, ErrAlreadyPoweredOn
		}
		return PowerTransition{Status: StatusOn, LastStartup: &now}, nil
	case CommandPowerOff:
		if status == StatusOff {
			return PowerTransition{}, ErrAlreadyPoweredOff
		}
		return PowerTransition{Status: StatusOff, LastStartup: nil}, nil
	case CommandReboot:
		if status != StatusOn {
			return PowerTransition{}, ErrRebootWhileOff
		}
		return PowerTransition{Status: StatusOn, LastStartup: &now}, nil
	}
	return PowerTransition{}, errors.New("unknown power command: " + command)
}
