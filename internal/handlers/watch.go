package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-ai/internal/metrics"
	"github.com/vancomm/minesweeper-ai/internal/player"
	"github.com/vancomm/minesweeper-ai/internal/repository"
)

// WatchFrame is one websocket message: the move that was just played,
// if any, and the run after it.
type WatchFrame struct {
	Move *MoveDTO      `json:"move,omitempty"`
	Run  *SolverRunDTO `json:"run"`
}

/*
Watch upgrades to a websocket and accepts newline-separated text
commands:

	g  send the current run state
	s  play one move, persist, send it
	a  play to completion, streaming every move

Binary messages and unknown commands terminate the stream.
*/
func (h Runs) Watch(w http.ResponseWriter, r *http.Request) {
	run, ok := h.fetchRun(w, r)
	if !ok {
		return
	}

	p, err := h.restore(run, newRand())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("db returned invalid solver_run.state")
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("upgrade failed")
		return
	}
	defer conn.Close()

	session := &watchSession{h: h, conn: conn, run: run, p: p}

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				h.log.WithError(err).Warn("websocket read")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		h.log.Debug("\t> ", text)
		for _, cmd := range strings.Split(text, "\n") {
			if cmd = strings.TrimSpace(cmd); cmd == "" {
				continue
			}
			if err := session.execute(cmd); err != nil {
				h.log.WithError(err).Error("watch command failed")
				return
			}
		}
	}
}

type watchSession struct {
	h    Runs
	conn *websocket.Conn
	run  *repository.SolverRun
	p    *player.Player
}

func (s *watchSession) execute(cmd string) error {
	switch cmd {
	case "g":
		return s.send(nil)
	case "s":
		return s.step()
	case "a":
		return s.autoplay()
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (s *watchSession) send(move *player.Move) error {
	frame := WatchFrame{Run: NewSolverRunDTO(s.run, s.p)}
	if move != nil {
		frame.Move = NewMoveDTO(*move)
	}
	return s.conn.WriteJSON(frame)
}

func (s *watchSession) step() error {
	know := s.p.Knowledge()
	safesBefore, minesBefore := len(know.Safes()), len(know.Mines())

	move, err := s.p.Step()
	if errors.Is(err, player.ErrDone) {
		return s.conn.WriteJSON(wrapError(err))
	}
	if err != nil {
		return err
	}

	metrics.ObserveMove(move)
	metrics.ObserveDeductions(
		len(know.Safes())-safesBefore, len(know.Mines())-minesBefore,
	)
	metrics.ObserveOutcome(s.p.Status())

	if err := s.persist(); err != nil {
		return err
	}
	return s.send(&move)
}

func (s *watchSession) autoplay() error {
	know := s.p.Knowledge()
	safesBefore, minesBefore := len(know.Safes()), len(know.Mines())

	played := false
	for s.p.Status() == player.Playing {
		move, err := s.p.Step()
		if err != nil {
			return err
		}
		played = true
		metrics.ObserveMove(move)
		if err := s.send(&move); err != nil {
			return err
		}
	}

	if played {
		metrics.ObserveDeductions(
			len(know.Safes())-safesBefore, len(know.Mines())-minesBefore,
		)
		metrics.ObserveOutcome(s.p.Status())
		if err := s.persist(); err != nil {
			return err
		}
	}
	// final frame carries the persisted ended_at
	return s.send(nil)
}

// The request context does not outlive a hijacked connection, so
// persistence runs on the background context.
func (s *watchSession) persist() error {
	saved, err := s.h.save(context.Background(), s.run, s.p)
	if err != nil {
		return err
	}
	s.run = saved
	return nil
}
