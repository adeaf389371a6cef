package editor

import (
	"github.com/goccy/go-json"

	"github.com/openstream-dk/openstream/pkg/debug"
	"github.com/openstream-dk/openstream/pkg/model"
)

// snapshot is a deep copy of the slide list, taken before each mutation.
// Encoding through JSON keeps the copy honest: anything the wire format
// carries is restored, and nothing else can leak through by reference.
type snapshot struct {
	slides   []byte
	slideIdx int
	selected int
}

func (s *Session) capture() (snapshot, bool) {
	if s.show == nil {
		return snapshot{}, false
	}
	data, err := json.Marshal(s.show.Slides)
	if err != nil {
		debug.Log("snapshot failed: %v", err)
		return snapshot{}, false
	}
	return snapshot{slides: data, slideIdx: s.slideIdx, selected: s.selectedID}, true
}

func (s *Session) restore(snap snapshot) bool {
	var slides []*model.Slide
	if err := json.Unmarshal(snap.slides, &slides); err != nil {
		debug.Log("snapshot restore failed: %v", err)
		return false
	}
	s.show.Slides = slides
	s.slideIdx = snap.slideIdx
	s.selectedID = snap.selected
	if s.Slide() == nil && len(s.show.Slides) > 0 {
		s.slideIdx = 0
	}
	return true
}

// pushUndo records the pre-mutation state and invalidates the redo stack.
func (s *Session) pushUndo() {
	snap, ok := s.capture()
	if !ok {
		return
	}
	s.undo = append(s.undo, snap)
	if len(s.undo) > s.historyLimit {
		s.undo = s.undo[len(s.undo)-s.historyLimit:]
	}
	s.redo = nil
}

// Undo reverts the last mutation.
func (s *Session) Undo() error {
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	current, ok := s.capture()
	if !ok {
		return ErrNothingToUndo
	}
	snap := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	if !s.restore(snap) {
		return ErrNothingToUndo
	}
	s.redo = append(s.redo, current)
	return nil
}

// Redo re-applies the last undone mutation.
func (s *Session) Redo() error {
	if len(s.redo) == 0 {
		return ErrNothingToRedo
	}
	current, ok := s.capture()
	if !ok {
		return ErrNothingToRedo
	}
	snap := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	if !s.restore(snap) {
		return ErrNothingToRedo
	}
	s.undo = append(s.undo, current)
	return nil
}

// CanUndo and CanRedo report history availability for the UI.
func (s *Session) CanUndo() bool { return len(s.undo) > 0 }
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }
