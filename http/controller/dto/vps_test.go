package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func validCreateRequest() CreateVpsRequest {
	return CreateVpsRequest{
		ServerName: "web-server-01",
		AuthMethod: "password",
		AuthValue:  "hunter2hunter2",
		CPU:        2,
		RAM:        8,
		Storage:    20,
		IPv4:       1,
		IPv6:       0,
		Location:   "us-east",
		OS:         "ubuntu",
	}
}

// bindingValidator mimics gin's binding engine, which runs validator/v10
// against the `binding` tag.
func bindingValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func TestCreateRequestBoundaryValues(t *testing.T) {
	v := bindingValidator()

	boundaries := []CreateVpsRequest{
		func() CreateVpsRequest { r := validCreateRequest(); r.CPU = 1; return r }(),
		func() CreateVpsRequest { r := validCreateRequest(); r.CPU = 32; return r }(),
		func() CreateVpsRequest { r := validCreateRequest(); r.RAM = 128; return r }(),
		func() CreateVpsRequest { r := validCreateRequest(); r.Storage = 10; return r }(),
		func() CreateVpsRequest { r := validCreateRequest(); r.Storage = 2000; return r }(),
		func() CreateVpsRequest { r := validCreateRequest(); r.IPv4 = 10; return r }(),
		func() CreateVpsRequest { r := validCreateRequest(); r.IPv6 = 16; return r }(),
	}

	for i, req := range boundaries {
		if err := v.Struct(req); err != nil {
			t.Errorf("boundary case %d should validate, got %v", i, err)
		}
		if issues := req.Validate(); len(issues) != 0 {
			t.Errorf("boundary case %d cross-field issues: %v", i, issues)
		}
	}
}

func TestCreateRequestRangeViolations(t *testing.T) {
	v := bindingValidator()

	violations := []struct {
		name   string
		mutate func(*CreateVpsRequest)
	}{
		{"cpu too high", func(r *CreateVpsRequest) { r.CPU = 33 }},
		{"ram too high", func(r *CreateVpsRequest) { r.RAM = 129 }},
		{"storage too low", func(r *CreateVpsRequest) { r.Storage = 9 }},
		{"storage too high", func(r *CreateVpsRequest) { r.Storage = 2001 }},
		// The stricter schema variant: at least one IPv4 address.
		{"ipv4 zero", func(r *CreateVpsRequest) { r.IPv4 = 0 }},
		{"ipv4 too high", func(r *CreateVpsRequest) { r.IPv4 = 11 }},
		{"ipv6 too high", func(r *CreateVpsRequest) { r.IPv6 = 17 }},
		{"server name too short", func(r *CreateVpsRequest) { r.ServerName = "abc" }},
		{"bad location", func(r *CreateVpsRequest) { r.Location = "moon-base" }},
		{"bad os", func(r *CreateVpsRequest) { r.OS = "templeos" }},
		{"bad auth method", func(r *CreateVpsRequest) { r.AuthMethod = "retina-scan" }},
	}

	for _, tt := range violations {
		req := validCreateRequest()
		tt.mutate(&req)
		if err := v.Struct(req); err == nil {
			t.Errorf("%s: expected a validation error", tt.name)
		}
	}
}

func TestCreateRequestCrossFieldRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateVpsRequest)
		wantField string
	}{
		{
			"server name with invalid characters",
			func(r *CreateVpsRequest) { r.ServerName = "my_server!" },
			"serverName",
		},
		{
			"short password",
			func(r *CreateVpsRequest) { r.AuthMethod = "password"; r.AuthValue = "short" },
			"authValue",
		},
		{
			"ssh key without prefix",
			func(r *CreateVpsRequest) { r.AuthMethod = "ssh-key"; r.AuthValue = "AAAAB3NzaC1yc2E" },
			"authValue",
		},
	}

	for _, tt := range tests {
		req := validCreateRequest()
		tt.mutate(&req)
		issues := req.Validate()
		if len(issues) == 0 {
			t.Errorf("%s: expected issues", tt.name)
			continue
		}
		if issues[0].Field != tt.wantField {
			t.Errorf("%s: issue field = %s, want %s", tt.name, issues[0].Field, tt.wantField)
		}
	}

	req := validCreateRequest()
	req.AuthMethod = "ssh-key"
	req.AuthValue = "ssh-ed25519 AAAAC3Nza"
	if issues := req.Validate(); len(issues) != 0 {
		t.Errorf("valid ssh key rejected: %v", issues)
	}
}

func TestIssuesFromBindingError(t *testing.T) {
	v := bindingValidator()

	req := validCreateRequest()
	req.CPU = 64
	req.Location = "moon-base"
	err := v.Struct(req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	issues := IssuesFromBindingError(&req, err)
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2: %v", len(issues), issues)
	}

	fields := map[string]bool{}
	for _, issue := range issues {
		fields[issue.Field] = true
	}
	if !fields["cpu"] || !fields["location"] {
		t.Errorf("issues should address cpu and location, got %v", issues)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, pageSize int
		total          int64
		wantPages      int
	}{
		{1, 10, 0, 0},
		{1, 10, 10, 1},
		{2, 10, 15, 2},
		{1, 10, 21, 3},
		{1, 100, 15, 1},
	}

	for _, tt := range tests {
		got := NewPagination(tt.page, tt.pageSize, tt.total)
		if got.TotalPages != tt.wantPages {
			t.Errorf("NewPagination(%d, %d, %d).TotalPages = %d, want %d",
				tt.page, tt.pageSize, tt.total, got.TotalPages, tt.wantPages)
		}
		if got.Total != tt.total || got.Page != tt.page || got.PageSize != tt.pageSize {
			t.Errorf("NewPagination echoed fields wrong: %+v", got)
		}
	}
}
