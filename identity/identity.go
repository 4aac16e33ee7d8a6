// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"sync"
)

// Durable storage keys for the persisted identity.
const (
	KeyMainID   = "currentUserId"
	KeyMainName = "currentUserName"
	KeySubID    = "currentSubUserId"
	KeySubName  = "currentSubUserName"
)

// Identity is the persisted acting identity: a main account and an
// optional sub-profile operated under it.
type Identity struct {
	MainID   string
	MainName string
	SubID    string
	SubName  string
}

// EffectiveID prefers the sub-profile over the main account when both
// exist (a parent account operating as a child profile).
func (id Identity) EffectiveID() string {
	if id.SubID != "" {
		return id.SubID
	}
	return id.MainID
}

func (id Identity) EffectiveName() string {
	if id.SubID != "" {
		return id.SubName
	}
	return id.MainName
}

// IsZero reports whether no identity is resolved at all.
func (id Identity) IsZero() bool {
	return id.MainID == "" && id.SubID == ""
}

// Resolver reads and publishes the acting identity from a Storage.
// It performs no network calls. A nil Storage resolves every field to
// empty without error.
type Resolver struct {
	mu      sync.Mutex
	storage Storage
	current Identity
	subs    map[int]chan Identity
	nextSub int
}

func NewResolver(storage Storage) *Resolver {
	r := &Resolver{
		storage: storage,
		subs:    make(map[int]chan Identity),
	}
	r.current = r.read()
	return r
}

// Current returns the last published identity.
func (r *Resolver) Current() Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Refresh re-reads the storage and republishes the identity to all
// subscribers if it changed. Wire this to storage-change notifications
// so multiple views stay consistent.
func (r *Resolver) Refresh() Identity {
	id := r.read()

	r.mu.Lock()
	changed := id != r.current
	r.current = id
	var targets []chan Identity
	if changed {
		for _, ch := range r.subs {
			targets = append(targets, ch)
		}
	}
	r.mu.Unlock()

	for _, ch := range targets {
		// Non-blocking: a slow subscriber misses intermediate states
		// but can always read the latest via Current.
		select {
		case ch <- id:
		default:
		}
	}
	return id
}

// Subscribe registers for identity-change notifications. The returned
// cancel func must be called to release the subscription.
func (r *Resolver) Subscribe() (<-chan Identity, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Identity, 4)
	token := r.nextSub
	r.nextSub++
	r.subs[token] = ch

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, token)
	}
	return ch, cancel
}

// Login stores the main account identity and republishes.
func (r *Resolver) Login(mainID, mainName string) error {
	if r.storage == nil {
		return nil
	}
	if err := r.storage.Set(KeyMainID, mainID); err != nil {
		return err
	}
	if err := r.storage.Set(KeyMainName, mainName); err != nil {
		return err
	}
	r.Refresh()
	return nil
}

// SwitchSubUser selects a sub-profile as the acting identity.
func (r *Resolver) SwitchSubUser(subID, subName string) error {
	if r.storage == nil {
		return nil
	}
	if err := r.storage.Set(KeySubID, subID); err != nil {
		return err
	}
	if err := r.storage.Set(KeySubName, subName); err != nil {
		return err
	}
	r.Refresh()
	return nil
}

// ClearSubUser returns to acting as the main account.
func (r *Resolver) ClearSubUser() error {
	if r.storage == nil {
		return nil
	}
	if err := r.storage.Delete(KeySubID); err != nil {
		return err
	}
	if err := r.storage.Delete(KeySubName); err != nil {
		return err
	}
	r.Refresh()
	return nil
}

// Logout removes all identity keys and republishes the empty identity.
func (r *Resolver) Logout() error {
	if r.storage == nil {
		return nil
	}
	for _, key := range []string{KeyMainID, KeyMainName, KeySubID, KeySubName} {
		if err := r.storage.Delete(key); err != nil {
			return err
		}
	}
	r.Refresh()
	return nil
}

func (r *Resolver) read() Identity {
	if r.storage == nil {
		return Identity{}
	}
	get := func(key string) string {
		v, _ := r.storage.Get(key)
		return v
	}
	return Identity{
		MainID:   get(KeyMainID),
		MainName: get(KeyMainName),
		SubID:    get(KeySubID),
		SubName:  get(KeySubName),
	}
}
