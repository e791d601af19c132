// dialogue_sequence.go - Line-by-line dialogue driven by a single continue input

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import "sync"

// DialogueLine is one reveal with the configuration it is shown with.
type DialogueLine struct {
	Text   string
	Config Config
}

// Dialogue is an ordered list of lines, usually loaded from a script.
type Dialogue struct {
	Name  string
	Lines []DialogueLine
}

// Sequence feeds a Dialogue into an Engine. Continue behaves like the usual
// dialogue box button: finish the current line if it is still typing,
// otherwise start the next one.
type Sequence struct {
	mutex    sync.Mutex
	engine   *Engine
	dialogue *Dialogue
	next     int
	loop     bool
}

func NewSequence(engine *Engine, dialogue *Dialogue, loop bool) *Sequence {
	if dialogue == nil {
		dialogue = &Dialogue{}
	}
	return &Sequence{engine: engine, dialogue: dialogue, loop: loop}
}

// Continue returns false once the last line is complete and there is nothing
// left to show.
func (s *Sequence) Continue() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.engine.IsComplete() {
		s.engine.SkipToEnd()
		return true
	}
	if s.next >= len(s.dialogue.Lines) {
		if !s.loop || len(s.dialogue.Lines) == 0 {
			return false
		}
		s.next = 0
	}
	line := s.dialogue.Lines[s.next]
	s.next++
	s.engine.SetConfig(line.Config)
	s.engine.StartReveal(line.Text)
	return true
}

// Remaining counts lines not yet started.
func (s *Sequence) Remaining() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.dialogue.Lines) - s.next
}

// Finished reports that every line has been shown in full.
func (s *Sequence) Finished() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return !s.loop && s.next >= len(s.dialogue.Lines) && s.engine.IsComplete()
}
