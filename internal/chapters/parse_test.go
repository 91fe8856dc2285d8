package chapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDescription(t *testing.T) {
	desc := `Questions answered in this session:

0:00 Introduction
2:15 - What is Maya?
12:34 – Is the world real?
1:02:03 — How do I meditate?
  1:10:00   Why do we suffer?  
Visit https://vedantany.org at 5:30 for more
7:5 bad timestamp
3:45 -
not a chapter 4:00`

	got := ParseDescription(desc)
	assert.Equal(t, []Chapter{
		{Timestamp: "0:00", Title: "Introduction", Seconds: 0},
		{Timestamp: "2:15", Title: "What is Maya?", Seconds: 135},
		{Timestamp: "12:34", Title: "Is the world real?", Seconds: 754},
		{Timestamp: "1:02:03", Title: "How do I meditate?", Seconds: 3723},
		{Timestamp: "1:10:00", Title: "Why do we suffer?", Seconds: 4200},
		{Timestamp: "3:45", Title: "-", Seconds: 225},
	}, got)
}

func TestParseDescription_WindowsLineEndings(t *testing.T) {
	got := ParseDescription("0:00 Intro\r\n5:00 - Main question\r\n")
	assert.Equal(t, []Chapter{
		{Timestamp: "0:00", Title: "Intro", Seconds: 0},
		{Timestamp: "5:00", Title: "Main question", Seconds: 300},
	}, got)
}

func TestParseDescription_None(t *testing.T) {
	assert.Empty(t, ParseDescription("A talk on Vedanta.\nNo chapters here."))
	assert.Empty(t, ParseDescription(""))
}
