package devserver

// ClientCount returns the number of connected live-reload clients.
func (s *Server) ClientCount() int {
	return s.hub.count()
}
