package providers

import (
	"github.com/samber/do/v2"

	"github.com/sakenavi/sakenavi-server/internal/config"
	"github.com/sakenavi/sakenavi-server/internal/logger"
	"github.com/sakenavi/sakenavi-server/internal/notify"
)

// NotifierHandle wraps the active notifier with shutdown capability.
// The Discord sender owns a rate limiter that needs stopping; the noop
// notifier has nothing to release.
type NotifierHandle struct {
	notify.Notifier
	discord *notify.Discord
}

// Shutdown implements do.Shutdownable.
func (h *NotifierHandle) Shutdown() error {
	if h.discord != nil {
		h.discord.Close()
	}
	return nil
}

// ProvideNotifier provides the post notifier. Without a webhook URL the
// server runs with notifications disabled.
func ProvideNotifier(i do.Injector) (*NotifierHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Discord.WebhookURL == "" {
		log.Info("Discord notifications disabled, no webhook URL configured")
		return &NotifierHandle{Notifier: notify.Noop{}}, nil
	}

	discord := notify.NewDiscord(cfg.Discord.WebhookURL, log.Logger)
	log.Info("Discord notifications enabled")

	return &NotifierHandle{Notifier: discord, discord: discord}, nil
}
