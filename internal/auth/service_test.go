package auth

import "testing"

func validSignup() SignupRequest {
	return SignupRequest{
		FullName:  "Sara Alzahrani",
		Username:  "sara",
		Email:     "sara@example.com",
		Password1: "figs-and-dates-9",
		Password2: "figs-and-dates-9",
	}
}

func TestSignupValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*SignupRequest)
		wantField string
	}{
		{"valid", func(r *SignupRequest) {}, ""},
		{"missing full name", func(r *SignupRequest) { r.FullName = "" }, "full_name"},
		{"missing username", func(r *SignupRequest) { r.Username = "" }, "username"},
		{"bad email shape", func(r *SignupRequest) { r.Email = "not-an-email" }, "email"},
		{"email without domain dot", func(r *SignupRequest) { r.Email = "a@b" }, "email"},
		{"password mismatch", func(r *SignupRequest) { r.Password2 = "something-else-9" }, "password2"},
		{"short password", func(r *SignupRequest) { r.Password1 = "abc1"; r.Password2 = "abc1" }, "password1"},
		{"numeric password", func(r *SignupRequest) { r.Password1 = "12345678"; r.Password2 = "12345678" }, "password1"},
		{"password equals username", func(r *SignupRequest) { r.Password1 = "saaaaara"; r.Password2 = "saaaaara"; r.Username = "saaaaara" }, "password1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)
			req.normalize()
			ve := req.validate()

			if tt.wantField == "" {
				if ve != nil {
					t.Fatalf("expected valid, got errors: %v", ve.Fields)
				}
				return
			}
			if ve == nil {
				t.Fatalf("expected error on %s, got none", tt.wantField)
			}
			if _, ok := ve.Fields[tt.wantField]; !ok {
				t.Errorf("expected error on field %s, got %v", tt.wantField, ve.Fields)
			}
		})
	}
}

func TestSignupMismatchReportedOnPassword2(t *testing.T) {
	req := validSignup()
	req.Password2 = "different-password-9"
	ve := req.validate()
	if ve == nil {
		t.Fatal("expected validation error")
	}
	if got := ve.Fields["password2"]; got != "Passwords do not match." {
		t.Errorf("password2 error = %q, want mismatch message", got)
	}
	if _, ok := ve.Fields["password1"]; ok {
		t.Error("mismatch must not be reported on password1")
	}
}

func TestNormalizeLowercasesEmail(t *testing.T) {
	req := SignupRequest{Email: "  Sara@Example.COM ", Username: " sara ", FullName: " Sara "}
	req.normalize()
	if req.Email != "sara@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", req.Email)
	}
	if req.Username != "sara" || req.FullName != "Sara" {
		t.Errorf("username/full_name not trimmed: %q %q", req.Username, req.FullName)
	}
}

func TestIdentifierIsEmail(t *testing.T) {
	tests := []struct {
		identifier string
		want       bool
	}{
		{"sara@example.com", true},
		{"sara", false},
		{"weird@name", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := identifierIsEmail(tt.identifier); got != tt.want {
			t.Errorf("identifierIsEmail(%q) = %v, want %v", tt.identifier, got, tt.want)
		}
	}
}
