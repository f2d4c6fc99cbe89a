package server

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/farmstack/internal/application/session"
)

// Control endpoints. Every request becomes a queued command so state
// changes happen on the simulation thread, through the session's normal
// paths.

type scoreRequest struct {
	Score float64 `json:"score"`
}

type livesRequest struct {
	Lives int `json:"lives"`
}

type waveRequest struct {
	Wave int `json:"wave"`
}

type spawnRequest struct {
	Subtype string  `json:"subtype"`
	Boss    string  `json:"boss"`
	X       float64 `json:"x"`
}

type abilityRequest struct {
	ID string `json:"id"`
}

func (s *Server) registerControl(mux *http.ServeMux) {
	mux.HandleFunc("/control/score", post(s.handleSetScore))
	mux.HandleFunc("/control/lives", post(s.handleSetLives))
	mux.HandleFunc("/control/wave", post(s.handleSetWave))
	mux.HandleFunc("/control/spawn", post(s.handleSpawn))
	mux.HandleFunc("/control/ability", post(s.handleAbility))
	mux.HandleFunc("/control/bank", post(s.handleBank))
	mux.HandleFunc("/control/gameover", post(s.handleGameOver))
	mux.HandleFunc("/control/restart", post(s.handleRestart))
}

func post(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleSetScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !decode(w, r, &req) {
		return
	}
	s.enqueue(w, func(sess *session.Session) {
		sess.SetScore(req.Score)
	})
}

func (s *Server) handleSetLives(w http.ResponseWriter, r *http.Request) {
	var req livesRequest
	if !decode(w, r, &req) {
		return
	}
	s.enqueue(w, func(sess *session.Session) {
		sess.SetLives(req.Lives)
	})
}

func (s *Server) handleSetWave(w http.ResponseWriter, r *http.Request) {
	var req waveRequest
	if !decode(w, r, &req) {
		return
	}
	s.enqueue(w, func(sess *session.Session) {
		sess.SetWave(req.Wave)
	})
}

func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	var req spawnRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Subtype == "" && req.Boss == "" {
		http.Error(w, "subtype or boss required", http.StatusBadRequest)
		return
	}
	s.enqueue(w, func(sess *session.Session) {
		var err error
		if req.Boss != "" {
			err = sess.ForceSpawnBoss(req.Boss, req.X)
		} else {
			err = sess.ForceSpawn(req.Subtype, req.X)
		}
		if err != nil {
			logrus.WithError(err).Warn("forced spawn failed")
		}
	})
}

func (s *Server) handleAbility(w http.ResponseWriter, r *http.Request) {
	var req abilityRequest
	if !decode(w, r, &req) {
		return
	}
	s.enqueue(w, func(sess *session.Session) {
		sess.TriggerAbility(req.ID)
	})
}

func (s *Server) handleBank(w http.ResponseWriter, r *http.Request) {
	s.enqueue(w, func(sess *session.Session) {
		sess.BankStack()
	})
}

func (s *Server) handleGameOver(w http.ResponseWriter, r *http.Request) {
	s.enqueue(w, func(sess *session.Session) {
		sess.ForceGameOver()
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.enqueue(w, func(sess *session.Session) {
		sess.Restart()
	})
}
