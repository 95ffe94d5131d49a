package seed

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToNumber(t *testing.T) {
	assert.Equal(t, uint32(5381), StringToNumber(""))
	// 5381*33 + 'a'
	assert.Equal(t, uint32(177670), StringToNumber("a"))
	assert.Equal(t, StringToNumber("ABC123"), StringToNumber("ABC123"))
	assert.NotEqual(t, StringToNumber("ABC123"), StringToNumber("ABC124"))
}

func TestRandomFrequency(t *testing.T) {
	for s := uint32(0); s < 500; s++ {
		for _, id := range []string{"", "ctr-1", "atz-wellesbourne", "x"} {
			f := RandomFrequency(s*7919, id)
			v, err := strconv.ParseFloat(f, 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, 118.0)
			assert.Less(t, v, 138.0)
			assert.Len(t, f, 7)
		}
	}
	assert.Equal(t, RandomFrequency(42, "ctr-1"), RandomFrequency(42, "ctr-1"))
}

func TestRandomSquawk(t *testing.T) {
	for s := uint32(0); s < 2000; s++ {
		code := RandomSquawk(s, fmt.Sprintf("id-%d", s))
		require.Len(t, code, 4)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '7', "non octal digit in %s", code)
		}
		assert.NotContains(t, []string{"0000", "2000", "7000", "7500", "7600", "7700"}, code)
	}
	assert.Equal(t, RandomSquawk(7, "a"), RandomSquawk(7, "a"))
}

func TestTimeInMinutes(t *testing.T) {
	tests := []struct {
		name     string
		seed     uint32
		min, max int
		want     int
	}{
		{"zero seed", 0, 540, 960, 540},
		{"wraps", 420, 540, 960, 540},
		{"offset", 10, 540, 960, 550},
		{"empty window", 99, 600, 600, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeInMinutes(tt.seed, tt.min, tt.max))
		})
	}
}

func TestNormalDistribution(t *testing.T) {
	a := NormalDistribution("ABC123wind", 10, 3)
	assert.Equal(t, a, NormalDistribution("ABC123wind", 10, 3))
	assert.Equal(t, 10.0, NormalDistribution("ABC123wind", 10, 0))

	// Box-Muller on 16 bit uniforms is bounded by about 4.71 sigma
	below, above := 0, 0
	for i := 0; i < 500; i++ {
		v := NormalDistribution(fmt.Sprintf("seed-%d", i), 1013, 5)
		assert.InDelta(t, 1013, v, 5*4.72)
		if v < 1013 {
			below++
		} else {
			above++
		}
	}
	assert.Positive(t, below)
	assert.Positive(t, above)
}

func TestRand(t *testing.T) {
	a := NewRand(1234, "end-pose")
	b := NewRand(1234, "end-pose")
	c := NewRand(1234, "start-pose")
	same, differ := true, false
	for i := 0; i < 20; i++ {
		x, y, z := a.Float64(), b.Float64(), c.Float64()
		same = same && x == y
		differ = differ || x != z
		assert.GreaterOrEqual(t, x, 0.0)
		assert.LessOrEqual(t, x, 1.0)
	}
	assert.True(t, same)
	assert.True(t, differ)

	r := NewRand(1, "j")
	for i := 0; i < 100; i++ {
		v := r.Jitter(-16, 1)
		assert.GreaterOrEqual(t, v, -17.0)
		assert.LessOrEqual(t, v, -15.0)
		assert.Less(t, r.Intn(3), 3)
	}
	assert.Equal(t, 0, r.Intn(0))
}
