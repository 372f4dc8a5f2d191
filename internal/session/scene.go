package session

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

func (s *Service) handleSceneUpdate(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.SceneUpdatePayload
	if !decode(raw, &p) {
		return nil
	}

	title := truncate(strings.TrimSpace(p.Title), SceneTitleMaxLen)
	text := truncate(p.Text, SceneTextMaxLen)

	room := cs.live.Room
	room.Mu.Lock()
	room.Scene = domain.Scene{Title: title, Text: text}
	snap := sceneSnapshot(room)
	s.persistRoom(room)
	room.Mu.Unlock()

	cs.live.Hub.Broadcast(snap, nil)
	return nil
}

func (s *Service) handleGridSet(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.GridSetPayload
	if !decode(raw, &p) {
		return nil
	}

	room := cs.live.Room
	room.Mu.Lock()
	if p.Cols != nil {
		room.Grid.Cols = clampInt(*p.Cols, GridMinCols, GridMaxCols)
	}
	if p.Rows != nil {
		room.Grid.Rows = clampInt(*p.Rows, GridMinRows, GridMaxRows)
	}
	if p.Cell != nil {
		room.Grid.Cell = clampInt(*p.Cell, GridMinCell, GridMaxCell)
	}
	snap := mapSnapshot(room)
	s.persistRoom(room)
	room.Mu.Unlock()

	cs.live.Hub.Broadcast(snap, nil)
	return nil
}

func (s *Service) handleMapSetURL(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.MapSetURLPayload
	if !decode(raw, &p) {
		return nil
	}

	room := cs.live.Room
	room.Mu.Lock()
	room.MapImageURL = strings.TrimSpace(p.URL)
	snap := mapSnapshot(room)
	s.persistRoom(room)
	room.Mu.Unlock()

	cs.live.Hub.Broadcast(snap, nil)
	return nil
}

// handleLightingSet applies the lighting patch. Lighting is live-only state,
// so no store write happens here.
func (s *Service) handleLightingSet(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.MapLightingSetPayload
	if !decode(raw, &p) {
		return nil
	}
	if p.Lighting == nil {
		return nil
	}

	room := cs.live.Room
	room.Mu.Lock()
	if p.Lighting.FogEnabled != nil {
		room.Lighting.FogEnabled = *p.Lighting.FogEnabled
	}
	if p.Lighting.Darkness != nil {
		room.Lighting.Darkness = *p.Lighting.Darkness
	}
	if p.Lighting.AmbientRadius != nil {
		room.Lighting.AmbientRadius = clampInt(*p.Lighting.AmbientRadius, 0, LightingMaxAmbientRadius)
	}
	snap := mapSnapshot(room)
	room.Mu.Unlock()

	cs.live.Hub.Broadcast(snap, nil)
	return nil
}

// truncate caps s at max bytes without splitting a multibyte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
