package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/chasefleming/elem-go"
	"github.com/go-chi/chi/v5"
	"github.com/wheelibin/yadom/internal/auth"
	"github.com/wheelibin/yadom/internal/capabilities"
	"github.com/wheelibin/yadom/internal/iot"
	"github.com/wheelibin/yadom/internal/models"
	"github.com/wheelibin/yadom/internal/views"
)

func (s *Server) page(w http.ResponseWriter, status int, body elem.Node) {
	theme := "light"
	if s.theme != nil {
		theme = s.theme.ThemeAt(time.Now())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(views.Page(s.options.Title, theme, body)))
}

func (s *Server) fragment(w http.ResponseWriter, status int, node elem.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(views.Fragment(node)))
}

// signedOut sends htmx back to the auth screen once the token is gone.
func (s *Server) signedOut(w http.ResponseWriter, r *http.Request) bool {
	if s.dash.State().HasToken {
		return false
	}
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return true
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return true
}

func (s *Server) authView(errMsg string) views.AuthView {
	v := views.AuthView{Error: errMsg}
	if s.oauth != nil && s.oauth.Configured() {
		v.LoginURL = "/auth/login"
	}
	return v
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := s.dash.State()
	if !state.HasToken {
		msg := ""
		if iot.IsUnauthorized(state.Err) {
			msg = iot.UserMessage(state.Err)
		}
		s.page(w, http.StatusOK, views.AuthScreen(s.authView(msg)))
		return
	}
	s.page(w, http.StatusOK, views.MainScreen())
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	if s.signedOut(w, r) {
		return
	}
	state := s.dash.State()
	if state.Snapshot == nil && state.Err == nil {
		// first load after start or login
		_ = s.dash.Refresh(r.Context())
		if s.signedOut(w, r) {
			return
		}
		state = s.dash.State()
	}
	s.fragment(w, http.StatusOK, views.Content(state))
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if s.signedOut(w, r) {
		return
	}
	s.dash.SetFilter(chi.URLParam(r, "filter"))
	s.fragment(w, http.StatusOK, views.Content(s.dash.State()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.signedOut(w, r) {
		return
	}
	if err := s.dash.Refresh(r.Context()); err != nil {
		s.logger.Warn("Refresh failed", "err", err)
		if s.signedOut(w, r) {
			return
		}
	}
	s.fragment(w, http.StatusOK, views.Content(s.dash.State()))
}

func (s *Server) detail(r *http.Request, deviceID string, errMsg string) (views.Detail, error) {
	dev, err := s.dash.Device(deviceID)
	if err != nil {
		return views.Detail{}, err
	}
	v := views.Detail{
		Device:       dev,
		GroupMembers: s.dash.GroupDevices(r.Context(), dev),
		Error:        errMsg,
	}
	if snap := s.dash.Snapshot(); snap != nil {
		v.Room = views.RoomName(snap.Info, dev)
		v.Linked = views.LinkedGroupMembers(snap.Info, dev)
	}
	return v, nil
}

func (s *Server) handleDevice(w http.ResponseWriter, r *http.Request) {
	if s.signedOut(w, r) {
		return
	}
	v, err := s.detail(r, chi.URLParam(r, "id"), "")
	if err != nil {
		s.fragment(w, http.StatusNotFound, views.ModalError("Device not found"))
		return
	}
	s.fragment(w, http.StatusOK, views.DetailView(v))
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if s.signedOut(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	deviceID := chi.URLParam(r, "id")
	interaction := capabilities.Interaction{
		Kind:       capabilities.ActionKind(r.PostForm.Get("kind")),
		Instance:   r.PostForm.Get("instance"),
		Value:      r.PostForm.Get("value"),
		ColorModel: r.PostForm.Get("color_model"),
	}

	err := s.dash.Act(r.Context(), deviceID, interaction)
	if err != nil {
		s.logger.Warn("Action failed", "device", deviceID, "kind", interaction.Kind, "err", err)
		if s.signedOut(w, r) {
			return
		}
	}
	status := http.StatusOK
	if errors.Is(err, capabilities.ErrUnknownAction) {
		status = http.StatusBadRequest
	}

	if r.PostForm.Get("view") == "detail" {
		v, derr := s.detail(r, deviceID, iot.UserMessage(err))
		if derr != nil {
			s.fragment(w, http.StatusNotFound, views.ModalError("Device not found"))
			return
		}
		s.fragment(w, status, views.DetailView(v))
		return
	}

	state := s.dash.State()
	if err != nil {
		state.Err = err
	}
	s.fragment(w, status, views.Content(state))
}

func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	if s.signedOut(w, r) {
		return
	}
	dev, err := s.dash.Device(chi.URLParam(r, "id"))
	if err != nil {
		s.fragment(w, http.StatusNotFound, views.ModalError("Device not found"))
		return
	}

	v := views.CameraView{Device: dev, PlaybackTimeout: s.options.PlaybackTimeout.Milliseconds()}
	url, err := s.dash.CameraStream(r.Context(), dev.ID, s.options.StreamPath)
	if err != nil {
		s.logger.Warn("Camera stream failed", "device", dev.ID, "err", err)
		if s.signedOut(w, r) {
			return
		}
		v.Error = iot.UserMessage(err)
	}
	v.StreamURL = url
	s.fragment(w, http.StatusOK, views.Camera(v))
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if s.signedOut(w, r) {
		return
	}
	s.fragment(w, http.StatusOK, views.ScenariosView(s.scenarios(), ""))
}

func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	if s.signedOut(w, r) {
		return
	}
	msg := "Scenario started"
	if err := s.dash.RunScenario(r.Context(), chi.URLParam(r, "id")); err != nil {
		if s.signedOut(w, r) {
			return
		}
		msg = iot.UserMessage(err)
	}
	s.fragment(w, http.StatusOK, views.ScenariosView(s.scenarios(), msg))
}

func (s *Server) scenarios() []models.Scenario {
	snap := s.dash.Snapshot()
	if snap == nil || snap.Info == nil {
		return nil
	}
	return snap.Info.Scenarios
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := s.dash.Login(r.Context(), r.PostForm.Get("token")); err != nil {
		s.logger.Warn("Login failed", "err", err)
		if errors.Is(err, auth.ErrNoToken) || iot.IsUnauthorized(err) {
			s.page(w, http.StatusBadRequest, views.AuthScreen(s.authView(loginMessage(err))))
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauth == nil || !s.oauth.Configured() {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, s.oauth.AuthorizeURL(), http.StatusFound)
}

func (s *Server) handleCallbackPage(w http.ResponseWriter, r *http.Request) {
	s.page(w, http.StatusOK, views.CallbackScreen())
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	token, err := auth.ParseFragment(r.PostForm.Get("fragment"))
	if err != nil {
		s.logger.Warn("OAuth callback rejected", "err", err)
		http.Error(w, loginMessage(err), http.StatusBadRequest)
		return
	}
	if err := s.dash.Login(r.Context(), token); err != nil {
		s.logger.Warn("Initial load after login failed", "err", err)
		if iot.IsUnauthorized(err) {
			http.Error(w, loginMessage(err), http.StatusUnauthorized)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.dash.Logout(); err != nil {
		s.logger.Error("Error signing out", "err", err)
		http.Error(w, "could not sign out", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	if s.signedOut(w, r) {
		return
	}
	snap := s.dash.Snapshot()
	if snap == nil {
		s.fragment(w, http.StatusOK, views.ModalError("Nothing loaded yet"))
		return
	}
	s.fragment(w, http.StatusOK, views.Debug(snap.Raw))
}

func (s *Server) handleDebugStructure(w http.ResponseWriter, r *http.Request) {
	if s.signedOut(w, r) {
		return
	}
	snap := s.dash.Snapshot()
	if snap == nil {
		s.fragment(w, http.StatusOK, views.ModalError("Nothing loaded yet"))
		return
	}
	s.fragment(w, http.StatusOK, views.DebugStructure(snap.Raw))
}

func loginMessage(err error) string {
	if errors.Is(err, auth.ErrNoToken) {
		return "Enter a token"
	}
	return iot.UserMessage(err)
}
