package store

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/DoyleJ11/typerace-backend/internal/engine"
)

const (
	CodeLength = 8
	// No 0/O or 1/I so codes survive being read aloud.
	CodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Store maps room codes to rooms. It is owned by the hub goroutine and does no locking.
type Store struct {
	rooms   map[string]*engine.Room
	prompts []string
	newCode func() (string, error)
}

func New(prompts []string) *Store {
	if len(prompts) == 0 {
		prompts = engine.Prompts
	}
	return &Store{
		rooms:   make(map[string]*engine.Room),
		prompts: prompts,
		newCode: GenerateCode,
	}
}

func GenerateCode() (string, error) {
	code := make([]byte, CodeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(CodeChars))))
		if err != nil {
			return "", err
		}
		code[i] = CodeChars[num.Int64()]
	}
	return string(code), nil
}

// Create stores a fresh waiting room with a random prompt.
func (s *Store) Create() *engine.Room {
	var code string
	for {
		c, err := s.newCode()
		if err != nil {
			c = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:CodeLength])
		}
		if _, taken := s.rooms[c]; !taken {
			code = c
			break
		}
	}

	room := engine.NewRoom(code, s.prompts[mrand.Intn(len(s.prompts))])
	s.rooms[code] = room
	return room
}

func (s *Store) Get(code string) (*engine.Room, bool) {
	room, ok := s.rooms[Normalize(code)]
	return room, ok
}

// Delete is a no-op for unknown codes.
func (s *Store) Delete(code string) {
	delete(s.rooms, Normalize(code))
}

func (s *Store) Len() int { return len(s.rooms) }

// Normalize maps user-typed codes onto the stored form.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
