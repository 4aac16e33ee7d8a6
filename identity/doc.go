// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity resolves the persisted acting identity (main account
plus optional sub-profile) from durable client storage.

# Effective Identity

The effective identity prefers the sub-profile over the main account:

	id := resolver.Current()
	actor := id.EffectiveID() // sub id if selected, else main id

This models a parent account operating as a child profile.

# Storage

Four keys hold the identity:

	currentUserId, currentUserName, currentSubUserId, currentSubUserName

Storage implementations: FileStorage (JSON file, the client's durable
store) and MemStorage (tests). A nil Storage or unreadable file
resolves every field to empty; no error propagates.

# Change Notification

The resolver has an explicit subscribe/unsubscribe contract instead of
hidden module-level state:

	ch, cancel := resolver.Subscribe()
	defer cancel()

Refresh re-reads the storage and publishes to subscribers only when
the identity actually changed. FileStorage.Watch feeds external file
modifications into Refresh, which is how independent processes sharing
one storage file converge without a reload:

	go fileStorage.Watch(ctx, func() { resolver.Refresh() })

# Lifecycle

Login and SwitchSubUser set keys, ClearSubUser removes the sub keys,
Logout removes all four. Each republishes through Refresh.
*/
package identity
