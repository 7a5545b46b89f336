package service

import "fmt"

func welcomeEmailTemplate(name, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Thanks for signing up. Your prompt builder is ready:
%s

Pick a generator, choose a few categories and copy the formula into Sora.

Best,
The %s Team`, name, appURL, appName)

	return subject, body
}

func paymentConfirmationTemplate(plan string, amount float64, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s subscription is active", appName)
	body := fmt.Sprintf(`Thanks for subscribing!

Plan: %s
Amount: $%.2f

Unlimited outputs and downloads are now unlocked:
%s

Best,
The %s Team`, plan, amount, appURL, appName)

	return subject, body
}
