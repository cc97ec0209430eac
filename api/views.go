package api

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seenimoa/clientdesk/internal/auth"
	"github.com/seenimoa/clientdesk/internal/portfolio"
	"github.com/seenimoa/clientdesk/internal/report"
	"github.com/seenimoa/clientdesk/pkg/models"
	"github.com/seenimoa/clientdesk/web"
)

// User-facing messages of the directory and detail views.
const (
	msgClientsFailed  = "Error fetching client data"
	msgClientFailed   = "Client not found or error fetching client data"
	msgClientNotFound = "Client not found"
	msgScriptFailed   = "Error running Python script"
)

// ============================================================
// Page models
// ============================================================

type loginPage struct {
	Username string
	Error    string
}

type clientsPage struct {
	Clients      []models.Client
	Error        string
	ScriptRan    bool
	ScriptOutput string
	ScriptError  string
}

type clientPage struct {
	Client *models.Client
	Error  string
}

type portfolioPage struct {
	ClientID string
	Live     bool
	Error    string
	Body     template.HTML
}

// ============================================================
// Login gate
// ============================================================

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, web.PageLogin, loginPage{})
}

// handleLogin checks the submitted credentials. No session is created: a
// successful login only navigates to the client list.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, web.PageLogin, loginPage{Error: "invalid form submission"})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if err := s.auth.Authenticate(r.Context(), username, password); err != nil {
		s.logger.Info().Err(err).Str("username", username).Msg("login rejected")
		s.render(w, r, http.StatusUnauthorized, web.PageLogin, loginPage{
			Username: username,
			Error:    auth.ErrInvalidCredentials.Error(),
		})
		return
	}

	http.Redirect(w, r, "/client-list", http.StatusSeeOther)
}

// ============================================================
// Client directory
// ============================================================

func (s *Server) handleClientList(w http.ResponseWriter, r *http.Request) {
	page, status := s.clientsPage(r)
	s.render(w, r, status, web.PageClients, page)
}

// handleRunScript triggers the backend script, shows its output under the
// client list and relays it to WebSocket subscribers.
func (s *Server) handleRunScript(w http.ResponseWriter, r *http.Request) {
	out, err := s.source.RunScript(r.Context())

	page, status := s.clientsPage(r)
	page.ScriptRan = err == nil
	if err != nil {
		s.logErr(r, err).Msg("running script")
		page.ScriptError = msgScriptFailed
		s.wsHub.Broadcast(WSMessage{Type: "script_output", Data: map[string]interface{}{"error": msgScriptFailed}})
	} else {
		page.ScriptOutput = out
		s.wsHub.Broadcast(WSMessage{Type: "script_output", Data: map[string]interface{}{"output": out}})
	}
	s.render(w, r, status, web.PageClients, page)
}

func (s *Server) clientsPage(r *http.Request) (clientsPage, int) {
	clients, err := s.source.Clients(r.Context())
	if err != nil {
		s.logErr(r, err).Msg("fetching clients")
		return clientsPage{Error: msgClientsFailed}, http.StatusBadGateway
	}
	return clientsPage{Clients: clients}, http.StatusOK
}

// ============================================================
// Client detail
// ============================================================

func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.source.Client(r.Context(), id)
	switch {
	case err != nil:
		s.logErr(r, err).Str("client_id", id).Msg("fetching client")
		s.render(w, r, clientErrorStatus(err), web.PageClient, clientPage{Error: msgClientFailed})
	case c == nil:
		s.render(w, r, http.StatusNotFound, web.PageClient, clientPage{Error: msgClientNotFound})
	default:
		s.render(w, r, http.StatusOK, web.PageClient, clientPage{Client: c})
	}
}

// ============================================================
// Portfolio
// ============================================================

// handlePortfolio renders the full portfolio view. Any failed fetch renders
// only the generic failure message.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page := portfolioPage{ClientID: id}

	v, err := s.loader.View(r.Context(), id)
	if err != nil {
		s.logErr(r, err).Str("client_id", id).Msg("loading portfolio")
		page.Error = portfolio.FailureMessage
		s.render(w, r, http.StatusBadGateway, web.PagePortfolio, page)
		return
	}

	body, err := report.Fragment(&v, s.report)
	if err != nil {
		s.logErr(r, err).Str("client_id", id).Msg("rendering portfolio")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	page.Body = body
	page.Live = s.live
	s.render(w, r, http.StatusOK, web.PagePortfolio, page)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := s.pages.RenderHTTP(w, status, page, data); err != nil {
		s.logErr(r, err).Str("page", page).Msg("rendering page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
