package system

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	titles []string
	texts  []string
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, title, text string) error {
	f.titles = append(f.titles, title)
	f.texts = append(f.texts, text)
	return f.err
}

func TestNotifyCmd_SendsReflectionPrompt(t *testing.T) {
	c, _ := setupMemory(t)
	n := &fakeNotifier{}

	require.NoError(t, (&NotifyCmd{Notifier: n}).Run(c))
	require.Equal(t, []string{"Win The Hour"}, n.titles)
	require.Equal(t, []string{"Time to reflect. Did you win 2:00 PM?"}, n.texts)

	require.NoError(t, (&NotifyCmd{Notifier: n, Hour: "9am"}).Run(c))
	require.Equal(t, "Time to reflect. Did you win 9:00 AM?", n.texts[1])
}

func TestNotifyCmd_DryRunDoesNotSend(t *testing.T) {
	c, _ := setupMemory(t)
	n := &fakeNotifier{}

	require.NoError(t, (&NotifyCmd{DryRun: true, Notifier: n}).Run(c))
	require.Empty(t, n.texts)
}

func TestNotifyCmd_DisabledNotifications(t *testing.T) {
	c, _ := setupMemory(t)
	ctx := context.Background()
	settings := c.Settings(ctx)
	settings.NotificationsEnabled = false
	c.Records.SaveSettings(ctx, settings)

	n := &fakeNotifier{}
	require.NoError(t, (&NotifyCmd{Notifier: n}).Run(c))
	require.Empty(t, n.texts)
}

func TestNotifyCmd_Errors(t *testing.T) {
	c, _ := setupMemory(t)

	err := (&NotifyCmd{Notifier: &fakeNotifier{err: errors.New("tray not running")}}).Run(c)
	require.ErrorContains(t, err, "tray not running")

	require.Error(t, (&NotifyCmd{Notifier: &fakeNotifier{}, Hour: "25"}).Run(c))
}
