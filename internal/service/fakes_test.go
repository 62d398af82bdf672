package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
)

// fakeBossStore хранилище в памяти с возможностью подменить отдельные методы
type fakeBossStore struct {
	mu     sync.Mutex
	bosses map[int64]*model.Boss

	ListAllErr        error
	GetByIDErr        error
	FindDueBetweenErr error
	UpdateScheduleErr error
	MarkNotifiedErr   error

	updateCalls   int
	notifiedCalls []int64
	dueCalls      [][2]time.Time
}

func newFakeBossStore(bosses ...*model.Boss) *fakeBossStore {
	s := &fakeBossStore{bosses: make(map[int64]*model.Boss)}
	for _, b := range bosses {
		s.bosses[b.ID] = b
	}
	return s
}

func clone(b *model.Boss) *model.Boss {
	cp := *b
	return &cp
}

func (s *fakeBossStore) sorted() []*model.Boss {
	out := make([]*model.Boss, 0, len(s.bosses))
	for _, b := range s.bosses {
		out = append(out, clone(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeBossStore) ListAll(ctx context.Context) ([]*model.Boss, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListAllErr != nil {
		return nil, s.ListAllErr
	}
	return s.sorted(), nil
}

func (s *fakeBossStore) GetByID(ctx context.Context, id int64) (*model.Boss, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetByIDErr != nil {
		return nil, s.GetByIDErr
	}
	b, ok := s.bosses[id]
	if !ok {
		return nil, nil
	}
	return clone(b), nil
}

func (s *fakeBossStore) FindByName(ctx context.Context, search string) (*model.Boss, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.sorted() {
		if strings.Contains(strings.ToLower(b.Name), strings.ToLower(search)) {
			return b, nil
		}
	}
	return nil, nil
}

func (s *fakeBossStore) FindDueBetween(ctx context.Context, low, high time.Time) ([]*model.Boss, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dueCalls = append(s.dueCalls, [2]time.Time{low, high})
	if s.FindDueBetweenErr != nil {
		return nil, s.FindDueBetweenErr
	}
	var due []*model.Boss
	for _, b := range s.sorted() {
		if b.NextSpawnAt == nil || b.NextSpawnAt.Before(low) || b.NextSpawnAt.After(high) {
			continue
		}
		due = append(due, b)
	}
	return due, nil
}

func (s *fakeBossStore) UpdateSchedule(ctx context.Context, id int64, upd model.ScheduleUpdate) (*model.Boss, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.UpdateScheduleErr != nil {
		return nil, s.UpdateScheduleErr
	}
	b, ok := s.bosses[id]
	if !ok {
		return nil, nil
	}
	if upd.SetLastKill {
		b.LastKillAt = upd.LastKillAt
	}
	if upd.SetNextSpawn {
		b.NextSpawnAt = upd.NextSpawnAt
		b.IsScheduled = upd.NextSpawnAt != nil
	}
	if upd.RespawnHours != nil {
		b.RespawnHours = *upd.RespawnHours
	}
	return clone(b), nil
}

func (s *fakeBossStore) MarkNotified(ctx context.Context, id int64, spawnAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiedCalls = append(s.notifiedCalls, id)
	if s.MarkNotifiedErr != nil {
		return s.MarkNotifiedErr
	}
	if b, ok := s.bosses[id]; ok {
		at := spawnAt
		b.NotifiedSpawnAt = &at
	}
	return nil
}

// fakeNotifier записывает уведомления; NotifyFunc может вернуть ошибку
type fakeNotifier struct {
	mu         sync.Mutex
	sent       []model.Notification
	chats      []int64
	NotifyFunc func(n model.Notification) error
}

func (n *fakeNotifier) Notify(ctx context.Context, chatID int64, notification model.Notification) error {
	n.mu.Lock()
	n.sent = append(n.sent, notification)
	n.chats = append(n.chats, chatID)
	fn := n.NotifyFunc
	n.mu.Unlock()
	if fn != nil {
		return fn(notification)
	}
	return nil
}

func (n *fakeNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		names = append(names, s.Name)
	}
	return names
}

type fakeChats struct {
	chatID int64
	ok     bool
	err    error
}

func (c fakeChats) NotificationChat(ctx context.Context) (int64, bool, error) {
	return c.chatID, c.ok, c.err
}

type fakeSettingsStore struct {
	values map[string]string
	GetErr error
	SetErr error
}

func (s *fakeSettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *fakeSettingsStore) Set(ctx context.Context, key, value string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
	return nil
}

func timep(t time.Time) *time.Time {
	return &t
}
