package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSubtitleTextWebVTT(t *testing.T) {
	vtt := `WEBVTT
Kind: captions
Language: en

00:00:00.000 --> 00:00:02.500
Hello and welcome

00:00:02.500 --> 00:00:05.000
to the channel
`
	assert.Equal(t, "Hello and welcome to the channel", ExtractSubtitleText(vtt))
}

func TestExtractSubtitleTextSRT(t *testing.T) {
	srt := `1
00:00:00,000 --> 00:00:02,500
First line

2
00:00:02,500 --> 00:00:05,000
Second line
`
	assert.Equal(t, "First line Second line", ExtractSubtitleText(srt))
}

func TestExtractSubtitleTextDropsSpeakerLabels(t *testing.T) {
	vtt := `WEBVTT

00:00:00.000 --> 00:00:02.000
>> HOST: ignored
Actual words
`
	assert.Equal(t, "Actual words", ExtractSubtitleText(vtt))
}

func TestExtractSubtitleTextEmpty(t *testing.T) {
	assert.Equal(t, "", ExtractSubtitleText(""))
	assert.Equal(t, "", ExtractSubtitleText("WEBVTT\n\nNOTE something\n"))
}
