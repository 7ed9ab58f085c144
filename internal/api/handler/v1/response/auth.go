package response

import "github.com/uniexpo/symposium-api/internal/domain"

type LoginResponse struct {
	Token  string        `json:"token"`
	Person domain.Person `json:"person"`
}
