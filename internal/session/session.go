package session

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Data is the part of a session that is persisted in a Store.
type Data struct {
	UserID  int64   `json:"user_id,omitempty"`
	Flashes []Flash `json:"flashes,omitempty"`
}

// Session is the per-request view of a visitor's session. It is not safe for
// concurrent use; each request gets its own copy from Manager.Load.
type Session struct {
	id        string
	data      Data
	isNew     bool
	dirty     bool
	renew     bool
	destroyed bool
}

func (s *Session) ID() string {
	return s.id
}

// UserID returns the logged-in user's id, or 0 for an anonymous visitor.
func (s *Session) UserID() int64 {
	return s.data.UserID
}

func (s *Session) SetUserID(id int64) {
	s.data.UserID = id
	s.dirty = true
}

func (s *Session) AddFlash(category, message string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Category: category, Message: message})
	s.dirty = true
}

// PopFlashes returns the queued flashes and clears them.
func (s *Session) PopFlashes() []Flash {
	if len(s.data.Flashes) == 0 {
		return nil
	}
	flashes := s.data.Flashes
	s.data.Flashes = nil
	s.dirty = true
	return flashes
}

// Clear drops all stored values but keeps the session alive.
func (s *Session) Clear() {
	s.data = Data{}
	s.dirty = true
}

// Renew issues a fresh session id on the next save, dropping the old one.
// Call it when the privilege level changes, e.g. on login.
func (s *Session) Renew() {
	s.renew = true
	s.dirty = true
}

// Destroy drops all session data and expires the cookie on the next save.
func (s *Session) Destroy() {
	s.data = Data{}
	s.destroyed = true
	s.dirty = true
}
