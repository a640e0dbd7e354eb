package runtime

import (
	"fmt"
	"log/slog"
	"minichat/contract"
	"minichat/domain"
	"minichat/errors"
	"minichat/observability"
	"sort"
	"sync"

	"github.com/samber/lo"
)

type Set map[string]struct{}

// Registry is the single process-wide directory of connected usernames and
// group memberships. One coarse mutex serializes every operation, so
// membership changes and message routing observe a total order.
//
// Routing never blocks under the lock: sinks are non-blocking queues and a
// full queue counts as a dropped line, not a stall. This keeps one slow
// client from freezing every other registry operation.
//
// Memberships are tracked by username and resolved into sinks through the
// sessions map, so a session's connection lives in a single place even when
// the user belongs to several groups.
type Registry struct {
	mu         sync.Mutex
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	sessions   map[string]contract.LineSink // username -> sink
	groups     map[string]Set               // group name -> usernames
}

// NewRegistry bootstraps the default group before any connection is accepted.
// The default group is never deleted, even when it transiently empties.
func NewRegistry(log *slog.Logger, monitoring *observability.MonitoringManager) *Registry {
	return &Registry{
		log:        log,
		monitoring: monitoring,
		sessions:   make(map[string]contract.LineSink),
		groups:     map[string]Set{domain.DefaultGroup: make(Set)},
	}
}

// Register binds a username to its sink and adds it to the default group.
// Concurrent registrations of the same username are serialized here: at most
// one wins, the others get ErrNameTaken and the session retries the handshake.
func (r *Registry) Register(username string, sink contract.LineSink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.sessions[username]; taken {
		return errors.ErrNameTaken
	}
	r.sessions[username] = sink
	r.groups[domain.DefaultGroup][username] = struct{}{}
	return nil
}

// Deregister removes a disconnecting session from the username directory and
// from every group member set. Emptied named groups are deleted; the default
// group stays. Unknown usernames are a no-op, which makes session close
// idempotent.
func (r *Registry) Deregister(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[username]; !ok {
		return
	}
	delete(r.sessions, username)

	for name, members := range r.groups {
		delete(members, username)
		if len(members) == 0 && name != domain.DefaultGroup {
			delete(r.groups, name)
			r.log.Info(fmt.Sprintf("Group %s has been removed as it has no members.", name))
		}
	}
}

// CreateGroup creates the group if absent and adds the caller as a member.
// Creation does not pull the caller out of the default group; only /join
// does that. Lobby suppression is computed at delivery time, so the stale
// default membership is harmless.
func (r *Registry) CreateGroup(group, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[group]; !ok {
		r.groups[group] = make(Set)
	}
	r.groups[group][username] = struct{}{}
}

func (r *Registry) JoinGroup(group, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sink, connected := r.sessions[username]
	if !connected {
		return
	}

	members, ok := r.groups[group]
	if !ok {
		r.deliver(sink, domain.NoticeGroupNotFound)
		return
	}
	if _, member := members[username]; member {
		r.deliver(sink, domain.AlreadyInGroup(group))
		return
	}

	if _, inDefault := r.groups[domain.DefaultGroup][username]; inDefault {
		delete(r.groups[domain.DefaultGroup], username)
		r.deliver(sink, domain.NoticeLeftDefault)
	}

	members[username] = struct{}{}
	r.deliver(sink, domain.JoinedGroup(group))
}

func (r *Registry) LeaveGroup(group, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sink, connected := r.sessions[username]
	if !connected {
		return
	}

	members, ok := r.groups[group]
	if !ok {
		r.deliver(sink, domain.NoticeGroupNotFound)
		return
	}
	if _, member := members[username]; !member {
		r.deliver(sink, domain.NotAMember(group))
		return
	}

	delete(members, username)
	r.deliver(sink, domain.LeftGroup(group))

	if len(members) == 0 && group != domain.DefaultGroup {
		delete(r.groups, group)
		r.log.Info(fmt.Sprintf("Group %s has been removed as it has no members.", group))
	}
}

// SendToUser routes an already formatted frame to one recipient.
// An unknown recipient is reported to the sender, not raised as an error.
func (r *Registry) SendToUser(recipient, line, sender string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.sessions[recipient]
	if !ok {
		if senderSink, connected := r.sessions[sender]; connected {
			r.deliver(senderSink, domain.NoticeUserNotFound)
		}
		return
	}
	r.deliver(target, line)
}

// SendToGroup formats and fans out one group frame.
//
// Default-group traffic only reaches members who do not currently belong to
// any named group. The check runs per recipient at delivery time, never
// cached, because membership can change between two messages.
func (r *Registry) SendToGroup(group, body, sender string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.groups[group]
	if !ok {
		if senderSink, connected := r.sessions[sender]; connected {
			r.deliver(senderSink, domain.NoticeGroupNotFound)
		}
		return
	}

	line := domain.FormatGroupMessage(group, sender, body)
	for username := range members {
		if group == domain.DefaultGroup && r.inOtherGroupsLocked(username) {
			continue
		}
		if sink, connected := r.sessions[username]; connected {
			r.deliver(sink, line)
		}
	}
}

// InOtherGroups reports whether the user currently belongs to at least one
// named group. The dispatcher uses it to gate default-group sends.
func (r *Registry) InOtherGroups(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inOtherGroupsLocked(username)
}

func (r *Registry) inOtherGroupsLocked(username string) bool {
	for name, members := range r.groups {
		if name == domain.DefaultGroup {
			continue
		}
		if _, ok := members[username]; ok {
			return true
		}
	}
	return false
}

// ListUsers returns the formatted snapshot of connected usernames.
func (r *Registry) ListUsers() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	usernames := lo.Keys(r.sessions)
	sort.Strings(usernames)
	return domain.ConnectedUsers(usernames)
}

// ListGroups returns the formatted snapshot of group names, the default
// group included.
func (r *Registry) ListGroups() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := lo.Keys(r.groups)
	sort.Strings(names)
	return domain.AvailableGroups(names)
}

// deliver hands one frame to a sink. Sinks never block; a refusal is
// accounted as a drop and logged at debug level only, a slow client is not
// an operational incident.
func (r *Registry) deliver(sink contract.LineSink, line string) {
	if err := sink.Send(line); err != nil {
		r.monitoring.IncrLinesDropped()
		r.log.Debug("Dropped outbound line", "error", err)
		return
	}
	r.monitoring.IncrLinesRouted()
}
