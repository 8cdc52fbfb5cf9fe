package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		user, pass string
		want       string
	}{
		{
			name: "native dsn untouched",
			in:   "club:pw@tcp(db:3306)/cms?parseTime=true",
			want: "club:pw@tcp(db:3306)/cms?parseTime=true",
		},
		{
			name: "url form gets defaults",
			in:   "mysql://club:pw@db:3306/cms",
			want: "club:pw@tcp(db:3306)/cms?charset=utf8mb4&parseTime=true",
		},
		{
			name: "jdbc params translated",
			in:   "jdbc:mysql://db:3306/cms?useUnicode=true&characterEncoding=utf8&useSSL=false&serverTimezone=UTC&zeroDateTimeBehavior=convertToNull",
			user: "root",
			pass: "secret",
			want: "root:secret@tcp(db:3306)/cms?charset=utf8&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "override beats url credentials",
			in:   "mysql://a:b@db:3306/cms?parseTime=false",
			user: "c",
			want: "c:b@tcp(db:3306)/cms?charset=utf8mb4&parseTime=false",
		},
		{name: "empty", in: "  ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "club:****@tcp(db:3306)/cms", maskDSN("club:pw@tcp(db:3306)/cms"))
	assert.Equal(t, "club@tcp(db)/cms", maskDSN("club@tcp(db)/cms"))
	assert.Equal(t, "tcp(db)/cms", maskDSN("tcp(db)/cms"))
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGorm_SQLite(t *testing.T) {
	db, err := NewGorm(Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, Close(db)) }()

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
