package session

// Session holds the credentials and role of the one live session.
//
// Fields left empty mean "absent": an empty AccessToken causes outbound
// requests to go out unauthenticated, and an empty RefreshToken makes a
// renewal attempt ineligible.
type Session struct {
	AccessToken  string
	RefreshToken string
	Role         string
}

// Partial is a merge patch applied by [Manager.Set]. Empty fields leave
// the corresponding live Session field untouched.
type Partial struct {
	AccessToken  string
	RefreshToken string
	Role         string
}

// IsZero reports whether all three session fields are absent.
func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.Role == ""
}

func (s Session) apply(p Partial) Session {
	if p.AccessToken != "" {
		s.AccessToken = p.AccessToken
	}
	if p.RefreshToken != "" {
		s.RefreshToken = p.RefreshToken
	}
	if p.Role != "" {
		s.Role = p.Role
	}
	return s
}
