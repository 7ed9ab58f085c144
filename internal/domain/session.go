package domain

// Session is the authenticated caller identity threaded explicitly into
// queue and scoring operations instead of being read from ambient request
// state.
type Session struct {
	PersonID uint   `json:"person_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

func (s Session) IsJudge() bool { return s.Role == RoleJudge }
