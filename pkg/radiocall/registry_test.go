package radiocall

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/model"
)

func TestDefaultRegistry_Complete(t *testing.T) {
	r := DefaultRegistry()
	assert.Empty(t, r.Missing())
	assert.NoError(t, r.Validate())
	assert.Len(t, r, len(model.AllStages()))
}

func TestNewParser_Incomplete(t *testing.T) {
	r := DefaultRegistry()
	delete(r, model.StageReportFinal)
	delete(r, model.StageCancelPanPan)

	_, err := NewParser(WithRegistry(r))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnimplementedStage))
	assert.Equal(t, []model.Stage{model.StageCancelPanPan, model.StageReportFinal}, r.Missing())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := make(Registry)
	r.register(roger, model.StageRoger)
	assert.Panics(t, func() { r.register(wilco, model.StageRoger) })
}
