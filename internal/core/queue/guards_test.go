package queue

import (
	"testing"
)

func TestCanRegister(t *testing.T) {
	tests := []struct {
		name        string
		ctx         RegisterContext
		wantAllowed bool
	}{
		{
			name: "member can take an open place",
			ctx: RegisterContext{
				MemberID: "MBR-001", MemberExists: true,
				BookID: "BOOK-001", BookExists: true,
				Tier: 1, TierCount: 2,
			},
			wantAllowed: true,
		},
		{
			name: "unknown member cannot register",
			ctx: RegisterContext{
				MemberID: "MBR-404",
				BookID:   "BOOK-001", BookExists: true,
				Tier: 1, TierCount: 2,
			},
			wantAllowed: false,
		},
		{
			name: "unknown book cannot be registered on",
			ctx: RegisterContext{
				MemberID: "MBR-001", MemberExists: true,
				BookID: "BOOK-404",
				Tier:   1, TierCount: 2,
			},
			wantAllowed: false,
		},
		{
			name: "tier above the book's count is refused",
			ctx: RegisterContext{
				MemberID: "MBR-001", MemberExists: true,
				BookID: "BOOK-001", BookExists: true,
				Tier: 3, TierCount: 2,
			},
			wantAllowed: false,
		},
		{
			name: "live registration blocks a duplicate",
			ctx: RegisterContext{
				MemberID: "MBR-001", MemberExists: true,
				BookID: "BOOK-001", BookExists: true,
				Tier: 1, TierCount: 2,
				HasLive: true,
			},
			wantAllowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanRegister(tt.ctx)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanRegister() Allowed = %v, want %v (reason: %s)", result.Allowed, tt.wantAllowed, result.Reason)
			}

			err := result.Error()
			if tt.wantAllowed && err != nil {
				t.Errorf("CanRegister().Error() = %v, want nil", err)
			}
			if !tt.wantAllowed && err == nil {
				t.Error("CanRegister().Error() = nil, want error")
			}
		})
	}
}

func TestCanReSign(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		wantAllowed bool
	}{
		{name: "active registration can re-sign", status: StatusActive, wantAllowed: true},
		{name: "dispatched registration cannot re-sign", status: StatusDispatched, wantAllowed: false},
		{name: "rolled-off registration cannot re-sign", status: StatusRolledOff, wantAllowed: false},
		{name: "resigned registration cannot re-sign", status: StatusResigned, wantAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanReSign(ReSignContext{RegistrationID: "REG-001", Status: tt.status})
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanReSign(%s) Allowed = %v, want %v", tt.status, result.Allowed, tt.wantAllowed)
			}
		})
	}
}

func TestCanReinstate(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		wantAllowed bool
	}{
		{name: "rolled-off registration can reinstate", status: StatusRolledOff, wantAllowed: true},
		{name: "active registration cannot reinstate", status: StatusActive, wantAllowed: false},
		{name: "resigned registration cannot reinstate", status: StatusResigned, wantAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanReinstate(ReSignContext{RegistrationID: "REG-001", Status: tt.status})
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanReinstate(%s) Allowed = %v, want %v", tt.status, result.Allowed, tt.wantAllowed)
			}
		})
	}
}

func TestDecideRollOff(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   RollOffDecision
	}{
		{name: "active registration rolls off", status: StatusActive, want: RollOffProceed},
		{name: "dispatched registration rolls off", status: StatusDispatched, want: RollOffProceed},
		{name: "suspended registration rolls off", status: StatusSuspended, want: RollOffProceed},
		{name: "rolled-off registration is a no-op", status: StatusRolledOff, want: RollOffNoop},
		{name: "resigned registration is a no-op", status: StatusResigned, want: RollOffNoop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideRollOff(RollOffContext{RegistrationID: "REG-001", Status: tt.status}); got != tt.want {
				t.Errorf("DecideRollOff(%s) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
