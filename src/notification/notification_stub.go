//go:build !darwin

package notification

import "log"

// show logs the notification on platforms without desktop delivery.
func show(title, message, subtitle string) {
	if subtitle != "" {
		log.Printf("notification: %s - %s (%s)", title, message, subtitle)
		return
	}
	log.Printf("notification: %s - %s", title, message)
}
