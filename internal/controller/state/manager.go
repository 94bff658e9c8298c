package state

import (
	"sync"
	"time"
)

// Manager управляет состояниями пользователей.
// Диалог, не обновлявшийся дольше ttl, считается брошенным.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		states: make(map[int64]*UserData),
		ttl:    ttl,
		now:    time.Now,
	}
}

// live возвращает запись, если она не устарела. Вызывать под блокировкой.
func (sm *Manager) live(telegramID int64) (*UserData, bool) {
	userData, exists := sm.states[telegramID]
	if !exists || sm.now().Sub(userData.UpdatedAt) > sm.ttl {
		return nil, false
	}
	return userData, true
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.live(telegramID); ok {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя, данные диалога сохраняются
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, telegramID)
		return
	}

	userData, ok := sm.live(telegramID)
	if !ok {
		userData = &UserData{Data: make(map[string]string)}
		sm.states[telegramID] = userData
	}
	userData.State = state
	userData.UpdatedAt = sm.now()
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (string, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.live(telegramID); ok {
		value, found := userData.Data[key]
		return value, found
	}
	return "", false
}

// SetData устанавливает временные данные; без активного диалога ничего не делает
func (sm *Manager) SetData(telegramID int64, key, value string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if userData, ok := sm.live(telegramID); ok {
		userData.Data[key] = value
		userData.UpdatedAt = sm.now()
	}
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// GetAllData возвращает копию данных диалога
func (sm *Manager) GetAllData(telegramID int64) map[string]string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	userData, ok := sm.live(telegramID)
	if !ok {
		return nil
	}

	dataCopy := make(map[string]string, len(userData.Data))
	for k, v := range userData.Data {
		dataCopy[k] = v
	}
	return dataCopy
}

// Sweep удаляет устаревшие диалоги и возвращает их количество
func (sm *Manager) Sweep() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for id := range sm.states {
		if _, ok := sm.live(id); !ok {
			delete(sm.states, id)
			removed++
		}
	}
	return removed
}
