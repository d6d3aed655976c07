// Package notifier abstracts delivery of the formatted availability
// message: Telegram when credentials are configured, console output for
// print-only runs or when credentials are missing.
package notifier
