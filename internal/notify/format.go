package notify

import "fmt"

// KeyCreatedMessage formats the delivery payload for a freshly rotated
// key. The one-time secret travels only through this message; it is never
// persisted anywhere else.
func KeyCreatedMessage(projectName, keyName, accountID, keyValue string) Message {
	body := fmt.Sprintf(
		"✅ A new API key was created.\n\nProject: %s\nService account: %s\nAccount ID: %s\nAPI key: %s\n\nStore this key now; it cannot be retrieved again.",
		projectName, keyName, accountID, keyValue)
	return Message{
		Subject: fmt.Sprintf("API key rotated: %s", keyName),
		Body:    body,
	}
}

// KeyFailedMessage formats the delivery payload for a failed rotation.
func KeyFailedMessage(projectName, keyName string, cause error) Message {
	return Message{
		Subject: fmt.Sprintf("API key rotation failed: %s", keyName),
		Body: fmt.Sprintf("❌ Rotation failed.\n\nProject: %s\nService account: %s\nError: %v",
			projectName, keyName, cause),
	}
}
