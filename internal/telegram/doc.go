// Package telegram sends availability notifications through the Telegram
// Bot API and renders the French message text.
//
// The client uses plain HTTP requests against the Bot API; authentication
// needs a bot token (from @BotFather) and a chat ID. The formatter also
// owns the notify decision: a message goes out only when the availability
// snapshot changed since the last notified run.
package telegram
