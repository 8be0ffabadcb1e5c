package mail

import "fmt"

func signupOTPTemplate(otp string) string {
	return fmt.Sprintf(
		`<h2>Verification Code</h2>
<p>To verify your account and complete your registration, please enter the following code:</p>
<p><b>%s</b></p>
<p>This code expires in 10 minutes.</p>`, otp)
}

func passwordResetTemplate(otp string) string {
	return fmt.Sprintf(
		`<h2>Password Reset</h2>
<p>Here is your password reset OTP:</p>
<p><b>%s</b></p>
<p>This code expires in 10 minutes. If you did not request a reset, ignore this mail.</p>`, otp)
}

func welcomeTemplate(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		`<h2>Welcome to EPool</h2>
<p>Hi %s,<br/>
Welcome to EPool! You're now part of a platform that turns everyday purchases into ownership opportunities.</p>
<p>Cheers to owning more of what matters,<br/>The EPool Team</p>`, name)
}
