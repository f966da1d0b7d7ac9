package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Chat routes
	mux.HandleFunc("/chat", s.app.ChatHandler.Chat)                          // POST - answer a question
	mux.HandleFunc("/regenerate", s.app.ChatHandler.Regenerate)              // POST - alternative answer
	mux.HandleFunc("/select_alternative", s.app.ChatHandler.SelectAlternative) // POST - switch active alternative
	mux.HandleFunc("/chat_history/", s.app.ChatHandler.History)              // GET /{session_id}
	mux.HandleFunc("/update_chat_history", s.app.ChatHandler.UpdateHistory)  // POST - replace message log

	// Session routes
	mux.HandleFunc("/generate_session", s.app.SessionHandler.Generate)      // GET - new session ID
	mux.HandleFunc("/sessions", s.app.SessionHandler.List)                  // GET - list sessions
	mux.HandleFunc("/update_session_title", s.app.SessionHandler.UpdateTitle) // PUT
	mux.HandleFunc("/delete_session/", s.app.SessionHandler.Delete)         // DELETE /{session_id}

	// Document routes
	mux.HandleFunc("/upload", s.app.DocumentHandler.Upload)          // POST - multipart file upload
	mux.HandleFunc("/uploaded_files/", s.app.DocumentHandler.List)   // GET /{session_id}
	mux.HandleFunc("/delete_file/", s.app.DocumentHandler.Delete)    // DELETE /{session_id}/{filename}
	mux.HandleFunc("/add_web_links", s.app.DocumentHandler.AddWebLinks) // POST - scrape web pages

	// System routes
	mux.HandleFunc("/health", s.app.HealthHandler.Health) // GET - service health

	return mux
}
