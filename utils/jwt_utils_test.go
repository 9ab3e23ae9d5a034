package utils

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("507f1f77bcf86cd799439011", "mia", "student")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "507f1f77bcf86cd799439011" {
		t.Errorf("UserID = %s, want 507f1f77bcf86cd799439011", claims.UserID)
	}
	if claims.Username != "mia" || claims.Role != "student" {
		t.Errorf("claims = %s/%s, want mia/student", claims.Username, claims.Role)
	}
}

func TestValidateTokenRejections(t *testing.T) {
	SetSecret("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.token); err == nil {
				t.Error("ValidateToken() = nil error, want rejection")
			}
		})
	}

	SetSecret("test-secret")
	token, _ := GenerateToken("id", "mia", "student")
	SetSecret("another-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Error("ValidateToken() with wrong secret = nil error, want rejection")
	}
}
