package http

import (
	"github.com/orris-inc/rbnotify/internal/application/roomblocking"
	"github.com/orris-inc/rbnotify/internal/application/roomblocking/usecases"
	"github.com/orris-inc/rbnotify/internal/shared/db"
)

type allUseCases struct {
	createBlockingUC    *usecases.CreateBlockingUseCase
	notifyOwnersUC      *usecases.NotifyOwnersUseCase
	decideBlockedRoomUC *usecases.DecideBlockedRoomUseCase
}

func (c *Container) initUseCases() {
	notifier := roomblocking.NewNotifier(
		c.switcher,
		c.templates,
		c.syncEvents,
		c.composer,
		c.log.Named("notifier"),
	)

	txMgr := db.NewTransactionManager(c.db)

	notifyOwnersUC := usecases.NewNotifyOwnersUseCase(c.repos.blockingRepo, notifier, c.outbox, c.log)

	c.ucs = &allUseCases{
		notifyOwnersUC: notifyOwnersUC,
		createBlockingUC: usecases.NewCreateBlockingUseCase(
			c.repos.userRepo, c.repos.roomRepo, c.repos.blockingRepo, notifyOwnersUC, txMgr, c.log,
		),
		decideBlockedRoomUC: usecases.NewDecideBlockedRoomUseCase(
			c.repos.userRepo, c.repos.blockingRepo, notifier, c.outbox, txMgr, c.log,
		),
	}
}
