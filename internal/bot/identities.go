package bot

import (
	"encoding/json"
	"os"
	"strings"
)

// BotUserIDPrefix marks seat occupants that are driven by the server.
const BotUserIDPrefix = "bot_"

// Identity is a bot's stable user id and display name.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

var identities = []Identity{
	{UserID: "bot_lucia", Username: "Lucia"},
	{UserID: "bot_mateo", Username: "Mateo"},
	{UserID: "bot_valen", Username: "Valen"},
	{UserID: "bot_rocio", Username: "Rocio"},
}

// LoadIdentities replaces the builtin identity pool from a JSON file. The
// builtin pool stays in place when the file is missing or malformed.
func LoadIdentities(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded []Identity
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if len(loaded) > 0 {
		identities = loaded
	}
	return nil
}

// GetBotIdentity returns the identity for a seat index, cycling the pool.
func GetBotIdentity(i int) Identity {
	return identities[i%len(identities)]
}

// GetBotUsername returns the display name for a bot user id, or "".
func GetBotUsername(userID string) string {
	for _, id := range identities {
		if id.UserID == userID {
			return id.Username
		}
	}
	return ""
}

// IsBot reports whether the given user id represents a bot seat.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, BotUserIDPrefix)
}
