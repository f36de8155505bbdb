package storage

import (
	"regexp"
	"testing"
	"time"

	"formbuilder/internal/app/formbuilder"

	"github.com/stretchr/testify/assert"
)

var _ formbuilder.ObjectStore = (*MinIOClient)(nil)

func TestObjectName(t *testing.T) {
	now := time.Unix(1700000000, 0)

	name := ObjectName("exports", now)
	assert.Regexp(t, regexp.MustCompile(`^exports/export_[0-9a-f-]{8}_1700000000\.json$`), name)
	assert.NotEqual(t, name, ObjectName("exports", now))

	assert.Regexp(t, `^export_[0-9a-f-]{8}_1700000000\.json$`, ObjectName("", now))
}
