package session

import "encoding/json"

// Persisted entry keys. The actions entry holds a JSON-serialized list,
// matching the wire shape the backend grants them in.
const (
	tokenKey    = "twitter_access_token"
	actionsKey  = "twitter_actions"
	usernameKey = "twitter_username"
)

// encodeEntries flattens a session into its three persisted entries.
func encodeEntries(s *Session) map[string]string {
	actions := s.Actions
	if actions == nil {
		actions = []string{}
	}
	raw, _ := json.Marshal(actions)
	return map[string]string{
		tokenKey:    s.Token,
		actionsKey:  string(raw),
		usernameKey: s.Username,
	}
}

// decodeEntries rebuilds a session from persisted entries. All three
// entries must be present and the actions entry must deserialize into a
// list; otherwise the result is nil.
func decodeEntries(entries map[string]string) *Session {
	token := entries[tokenKey]
	actionsRaw := entries[actionsKey]
	username := entries[usernameKey]
	if token == "" || actionsRaw == "" || username == "" {
		return nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(actionsRaw), &parsed); err != nil {
		return nil
	}
	list, ok := parsed.([]any)
	if !ok {
		return nil
	}
	actions := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			actions = append(actions, s)
		}
	}

	return &Session{Token: token, Actions: actions, Username: username}
}
