package internaldefs

import (
	dashAuth "github.com/MrEthical07/dashAuth"
)

// CounterDef binds one engine counter to its stable exported name.
type CounterDef struct {
	ID   dashAuth.MetricID
	Name string
	Help string
}

// CounterDefs covers every engine counter, in MetricID order.
var CounterDefs = []CounterDef{
	{ID: dashAuth.MetricLoginSuccess, Name: "dashauth_login_success_total", Help: "Completed logins (password plus OTP)."},
	{ID: dashAuth.MetricLoginFailure, Name: "dashauth_login_failure_total", Help: "Failed password-phase login attempts."},
	{ID: dashAuth.MetricLoginLocked, Name: "dashauth_login_locked_total", Help: "Login attempts rejected by an active lockout."},
	{ID: dashAuth.MetricOTPIssued, Name: "dashauth_otp_issued_total", Help: "One-time codes issued."},
	{ID: dashAuth.MetricOTPResendBlocked, Name: "dashauth_otp_resend_blocked_total", Help: "Resend requests rejected inside the minimum gap."},
	{ID: dashAuth.MetricOTPVerifySuccess, Name: "dashauth_otp_verify_success_total", Help: "Successful OTP verifications."},
	{ID: dashAuth.MetricOTPVerifyFailure, Name: "dashauth_otp_verify_failure_total", Help: "Failed OTP verifications."},
	{ID: dashAuth.MetricRegistrationSuccess, Name: "dashauth_registration_success_total", Help: "Accounts created."},
	{ID: dashAuth.MetricRegistrationDuplicate, Name: "dashauth_registration_duplicate_total", Help: "Registrations rejected as duplicate email."},
	{ID: dashAuth.MetricRefreshSuccess, Name: "dashauth_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: dashAuth.MetricRefreshFailure, Name: "dashauth_refresh_failure_total", Help: "Rejected refresh attempts."},
	{ID: dashAuth.MetricLogout, Name: "dashauth_logout_total", Help: "Logout operations."},
	{ID: dashAuth.MetricPasswordResetRequest, Name: "dashauth_password_reset_request_total", Help: "Password reset requests (including unknown emails)."},
	{ID: dashAuth.MetricPasswordResetSuccess, Name: "dashauth_password_reset_success_total", Help: "Consumed reset tokens."},
	{ID: dashAuth.MetricPasswordResetFailure, Name: "dashauth_password_reset_failure_total", Help: "Rejected reset tokens."},
	{ID: dashAuth.MetricPasswordChangeSuccess, Name: "dashauth_password_change_success_total", Help: "Successful password changes."},
	{ID: dashAuth.MetricPasswordChangeFailure, Name: "dashauth_password_change_failure_total", Help: "Rejected password change attempts."},
	{ID: dashAuth.MetricOAuthSuccess, Name: "dashauth_oauth_success_total", Help: "Successful OAuth logins."},
	{ID: dashAuth.MetricOAuthFailure, Name: "dashauth_oauth_failure_total", Help: "Failed OAuth callbacks."},
}
