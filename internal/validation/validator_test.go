// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package validation

import (
	"strings"
	"testing"
)

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator should return the same instance")
	}
}

type registerPayload struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=128"`
	TenantID string `validate:"required,uuid"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     registerPayload
		wantField string
		wantMsg   string
	}{
		{
			name: "valid payload",
			input: registerPayload{
				Email:    "alice@example.com",
				Password: "correct-horse",
				TenantID: "0c2700ab-ef25-4a7c-b8a2-a91023984e37",
			},
		},
		{
			name: "missing email",
			input: registerPayload{
				Password: "correct-horse",
				TenantID: "0c2700ab-ef25-4a7c-b8a2-a91023984e37",
			},
			wantField: "Email",
			wantMsg:   "Email is required",
		},
		{
			name: "malformed email",
			input: registerPayload{
				Email:    "not-an-email",
				Password: "correct-horse",
				TenantID: "0c2700ab-ef25-4a7c-b8a2-a91023984e37",
			},
			wantField: "Email",
			wantMsg:   "valid email address",
		},
		{
			name: "short password",
			input: registerPayload{
				Email:    "alice@example.com",
				Password: "short",
				TenantID: "0c2700ab-ef25-4a7c-b8a2-a91023984e37",
			},
			wantField: "Password",
			wantMsg:   "at least 8 characters",
		},
		{
			name: "bad tenant id",
			input: registerPayload{
				Email:    "alice@example.com",
				Password: "correct-horse",
				TenantID: "nope",
			},
			wantField: "TenantID",
			wantMsg:   "valid UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Fields[0].Field != tt.wantField {
				t.Errorf("failing field = %q, want %q", err.Fields[0].Field, tt.wantField)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("message = %q, want contains %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStructCollectsAllFailures(t *testing.T) {
	err := ValidateStruct(&registerPayload{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Fields) != 3 {
		t.Errorf("got %d field errors, want 3", len(err.Fields))
	}
	if !strings.Contains(err.Error(), ";") {
		t.Errorf("combined message = %q, want joined with ;", err.Error())
	}
}
