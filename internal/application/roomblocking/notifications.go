package roomblocking

import (
	"context"
	"fmt"
	"strconv"

	"github.com/orris-inc/rbnotify/internal/domain/room"
	"github.com/orris-inc/rbnotify/internal/domain/shared/events"
	"github.com/orris-inc/rbnotify/internal/domain/user"
	"github.com/orris-inc/rbnotify/internal/infrastructure/email"
	"github.com/orris-inc/rbnotify/internal/infrastructure/i18n"
	"github.com/orris-inc/rbnotify/internal/infrastructure/template"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

const (
	// EventTypeBeforeNotificationSend is published once per built
	// notification, before the message is composed.
	EventTypeBeforeNotificationSend = "before-notification-send"

	SenderBlockingOwner = "notify-rb-blocking-owner"
	SenderBlockingUser  = "notify-rb-blocking-user"

	TemplateAwaitingConfirmation = "rb/emails/blockings/awaiting_confirmation_email_to_manager.txt"
	TemplateStateToUser          = "rb/emails/blockings/state_email_to_user.txt"
)

// BeforeSendEvent carries the objects a notification template was rendered
// with. Listeners run synchronously and may edit Template in place.
type BeforeSendEvent struct {
	events.BaseEvent
	Sender       string
	Owner        *user.User
	User         *user.User
	Blocking     *room.Blocking
	BlockedRooms []*room.BlockedRoom
	BlockedRoom  *room.BlockedRoom
	Template     *template.Module
}

// Notifier builds the room blocking emails. It never delivers them.
type Notifier struct {
	switcher  i18n.Switcher
	renderer  template.Renderer
	publisher events.EventPublisher
	composer  *email.Composer
	logger    logger.Interface
}

func NewNotifier(
	switcher i18n.Switcher,
	renderer template.Renderer,
	publisher events.EventPublisher,
	composer *email.Composer,
	logger logger.Interface,
) *Notifier {
	return &Notifier{
		switcher:  switcher,
		renderer:  renderer,
		publisher: publisher,
		composer:  composer,
		logger:    logger,
	}
}

// NotifyRequest builds the email asking owner to approve blockedRooms.
// Every room in blockedRooms is expected to be owned by owner.
func (n *Notifier) NotifyRequest(ctx context.Context, owner *user.User, blocking *room.Blocking, blockedRooms []*room.BlockedRoom) (*email.Message, error) {
	ctx, release := n.switcher.ForceUserLocale(ctx, owner)
	defer release()

	tpl, err := n.renderer.Render(ctx, TemplateAwaitingConfirmation, map[string]any{
		"owner":         owner,
		"blocking":      blocking,
		"blocked_rooms": blockedRooms,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render blocking request for %s: %w", owner.Email(), err)
	}

	n.publish(&BeforeSendEvent{
		BaseEvent:    events.NewBaseEvent(EventTypeBeforeNotificationSend, strconv.FormatUint(uint64(blocking.ID()), 10)),
		Sender:       SenderBlockingOwner,
		Owner:        owner,
		Blocking:     blocking,
		BlockedRooms: blockedRooms,
		Template:     tpl,
	})

	return n.composer.Compose(owner.Email(), tpl)
}

// NotifyRequestResponse builds the email telling the blocking creator about
// the decision taken on blockedRoom.
func (n *Notifier) NotifyRequestResponse(ctx context.Context, blockedRoom *room.BlockedRoom) (*email.Message, error) {
	blocking := blockedRoom.Blocking()
	if blocking == nil {
		return nil, fmt.Errorf("blocked room %d is not attached to a blocking", blockedRoom.ID())
	}
	to := blocking.CreatedBy()

	ctx, release := n.switcher.ForceUserLocale(ctx, to)
	defer release()

	tpl, err := n.renderer.Render(ctx, TemplateStateToUser, map[string]any{
		"blocking":     blocking,
		"blocked_room": blockedRoom,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render blocking response for %s: %w", to.Email(), err)
	}

	n.publish(&BeforeSendEvent{
		BaseEvent:   events.NewBaseEvent(EventTypeBeforeNotificationSend, strconv.FormatUint(uint64(blocking.ID()), 10)),
		Sender:      SenderBlockingUser,
		User:        to,
		Blocking:    blocking,
		BlockedRoom: blockedRoom,
		Template:    tpl,
	})

	return n.composer.Compose(to.Email(), tpl)
}

func (n *Notifier) publish(ev *BeforeSendEvent) {
	if n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(ev); err != nil {
		n.logger.Warnw("before-send listener failed", "sender", ev.Sender, "template", ev.Template.Path, "error", err)
	}
}
