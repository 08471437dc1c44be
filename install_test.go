package goajax

import (
	"testing"

	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstall_LifecycleAndDispatch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	reg := host.NewRegistry()

	mounted := 0
	require.NoError(t, env.svc.Install(reg, InstallOptions{Mounted: func() { mounted++ }}))

	env.page.SetMeta(dto.MetaComponentState, "true")
	reg.Mount()

	version, ok := env.page.Meta(dto.MetaHistoryVersion)
	require.True(t, ok)
	assert.Len(t, version, historyVersionLength)
	state, _ := env.page.Meta(dto.MetaComponentState)
	assert.Equal(t, "false", state)
	assert.Equal(t, 1, mounted)

	cfg := dto.DefaultRequestConfig()
	cfg.WithURL("http://app.test/dispatched")
	res, err := reg.Dispatch(waitCtx(t), &cfg)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	require.Len(t, env.client.calls(), 1)
	assert.Equal(t, "/dispatched", pathOf(env.client.calls()[0]))
}

func TestInstall_NoHost(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	assert.ErrorIs(t, env.svc.Install(nil, InstallOptions{}), dto.ErrNoHost)
}
