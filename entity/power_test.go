package entity

import (
	"testing"
	"time"
)

func TestApplyPowerCommand(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		status     string
		command    string
		wantStatus string
		wantBootAt bool
		wantErr    error
	}{
		{StatusOn, CommandPowerOn, "", false, ErrAlreadyPoweredOn},
		{StatusOn, CommandPowerOff, StatusOff, false, nil},
		{StatusOn, CommandReboot, StatusOn, true, nil},
		{StatusOff, CommandPowerOn, StatusOn, true, nil},
		{StatusOff, CommandPowerOff, "", false, ErrAlreadyPoweredOff},
		{StatusOff, CommandReboot, "", false, ErrRebootWhileOff},
		{StatusPending, CommandPowerOn, StatusOn, true, nil},
		{StatusPending, CommandPowerOff, StatusOff, false, nil},
		{StatusPending, CommandReboot, "", false, ErrRebootWhileOff},
	}

	for _, tt := range tests {
		got, err := ApplyPowerCommand(tt.status, tt.command, now)
		if err != tt.wantErr {
			t.Errorf("ApplyPowerCommand(%s, %s) error = %v, want %v", tt.status, tt.command, err, tt.wantErr)
			continue
		}
		if tt.wantErr != nil {
			continue
		}
		if got.Status != tt.wantStatus {
			t.Errorf("ApplyPowerCommand(%s, %s).Status = %s, want %s", tt.status, tt.command, got.Status, tt.wantStatus)
		}
		if tt.wantBootAt {
			if got.LastStartup == nil || !got.LastStartup.Equal(now) {
				t.Errorf("ApplyPowerCommand(%s, %s).LastStartup = %v, want %v", tt.status, tt.command, got.LastStartup, now)
			}
		} else if got.LastStartup != nil {
			t.Errorf("ApplyPowerCommand(%s, %s).LastStartup = %v, want nil", tt.status, tt.command, got.LastStartup)
		}
	}
}

func TestApplyPowerCommandUnknown(t *testing.T) {
	if _, err := ApplyPowerCommand(StatusOn, "hibernate", time.Now()); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestPowerFromStatus(t *testing.T) {
	if PowerFromStatus(StatusOn) != PowerOn {
		t.Error("on should map to power on")
	}
	if PowerFromStatus(StatusOff) != PowerOff {
		t.Error("off should map to power off")
	}
	if PowerFromStatus(StatusPending) != PowerOff {
		t.Error("pending should map to power off")
	}
}
