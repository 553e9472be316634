package entities

// Credentials - пара токенов, выданная API.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Complete сообщает, что оба токена заданы.
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}
