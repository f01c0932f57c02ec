// Package notify delivers fired alerts to the user.
//
// LogNotifier writes alerts to the structured log. TelegramNotifier sends
// them to a chat with inline Snooze and Stop buttons and resolves the alert
// session when a button is pressed.
package notify
