package view

import (
	"bytes"
	"strings"
	"testing"

	"accounts/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, users []*entity.User) string {
	t.Helper()

	renderer, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, UsersPage, users, nil))

	return buf.String()
}

func TestRenderer_UsersPage_Empty(t *testing.T) {
	page := render(t, []*entity.User{})

	assert.Contains(t, page, "<th>First Name</th>")
	assert.Contains(t, page, "<th>Last Name</th>")
	assert.Contains(t, page, "<th>Email</th>")
	assert.Contains(t, page, "<th>Phone Number</th>")
	assert.Equal(t, 1, strings.Count(page, "<tr>"))
	assert.NotContains(t, page, "<td>")
}

func TestRenderer_UsersPage_Rows(t *testing.T) {
	page := render(t, []*entity.User{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", PhoneNumber: "555-0100"},
		{FirstName: "John", LastName: "Roe", Email: "john@x.com", PhoneNumber: "555-0101"},
	})

	assert.Equal(t, 3, strings.Count(page, "<tr>"))
	assert.Contains(t, page, "<td>Jane</td>")
	assert.Contains(t, page, "<td>john@x.com</td>")
	assert.Less(t, strings.Index(page, "Jane"), strings.Index(page, "John"))
}

func TestRenderer_UsersPage_EscapesFields(t *testing.T) {
	page := render(t, []*entity.User{
		{FirstName: "<script>alert(1)</script>", LastName: "O'Brien & Sons", Email: "a@x.com"},
	})

	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, page, "O&#39;Brien &amp; Sons")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	err = renderer.Render(&bytes.Buffer{}, "missing.html", nil, nil)
	assert.Error(t, err)
}
