package validation

import "testing"

type dateField struct {
	Date string `validate:"date"`
}

type phoneField struct {
	Phone string `validate:"phone"`
}

type otpField struct {
	OTP string `validate:"otp"`
}

type passwordField struct {
	Password string `validate:"password"`
}

func TestDateValidator(t *testing.T) {
	v := New()
	if err := v.Struct(dateField{Date: "2026-09-15"}); err != nil {
		t.Fatalf("expected valid date, got %v", err)
	}
	for _, bad := range []string{"15/09/2026", "2026-13-01", "tomorrow", ""} {
		if err := v.Struct(dateField{Date: bad}); err == nil {
			t.Fatalf("expected error for date %q", bad)
		}
	}
}

func TestPhoneValidator(t *testing.T) {
	v := New()
	for _, good := range []string{"+14155550100", "4915112345678"} {
		if err := v.Struct(phoneField{Phone: good}); err != nil {
			t.Fatalf("expected valid phone %q, got %v", good, err)
		}
	}
	for _, bad := range []string{"0123", "+0123456", "phone", ""} {
		if err := v.Struct(phoneField{Phone: bad}); err == nil {
			t.Fatalf("expected error for phone %q", bad)
		}
	}
}

func TestOTPValidator(t *testing.T) {
	v := New()
	if err := v.Struct(otpField{OTP: "042531"}); err != nil {
		t.Fatalf("expected valid otp, got %v", err)
	}
	for _, bad := range []string{"1234", "1234567", "12345a", ""} {
		if err := v.Struct(otpField{OTP: bad}); err == nil {
			t.Fatalf("expected error for otp %q", bad)
		}
	}
}

func TestPasswordValidator(t *testing.T) {
	v := New()
	for _, good := range []string{"Sup3r$ecret", "Abc1$efg"} {
		if err := v.Struct(passwordField{Password: good}); err != nil {
			t.Fatalf("expected valid password %q, got %v", good, err)
		}
	}
	for _, bad := range []string{"Ab1$xyz", "alllowercase1$", "ALLUPPER1$", "NoDigits$$", "NoSpecial11"} {
		if err := v.Struct(passwordField{Password: bad}); err == nil {
			t.Fatalf("expected error for password %q", bad)
		}
	}
}
