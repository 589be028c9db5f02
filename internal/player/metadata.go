package player

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"
)

// Metadata is what the status line shows about the playing file.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// ReadMetadata reads the file's tags: Vorbis comments for FLAC and Ogg,
// ID3v2 otherwise. A file without a title is named after its base name.
func ReadMetadata(path string) Metadata {
	var m Metadata
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		m = readFLACTags(path)
	case ".ogg":
		m = readOGGTags(path)
	default:
		m = readID3Tags(path)
	}
	if m.Title == "" {
		base := filepath.Base(path)
		m.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return m
}

func readID3Tags(path string) Metadata {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Metadata{}
	}
	defer tag.Close()
	return Metadata{
		Title:  strings.TrimSpace(tag.Title()),
		Artist: strings.TrimSpace(tag.Artist()),
		Album:  strings.TrimSpace(tag.Album()),
	}
}

func readFLACTags(path string) Metadata {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return Metadata{}
	}
	defer stream.Close()

	var m Metadata
	for _, block := range stream.Blocks {
		vc, ok := block.Body.(*meta.VorbisComment)
		if !ok {
			continue
		}
		for _, tag := range vc.Tags {
			m.setVorbis(tag[0], tag[1])
		}
	}
	return m
}

func readOGGTags(path string) Metadata {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}
	}
	defer f.Close()

	r, err := oggvorbis.NewReader(f)
	if err != nil {
		return Metadata{}
	}
	var m Metadata
	for _, c := range r.CommentHeader().Comments {
		if key, value, ok := strings.Cut(c, "="); ok {
			m.setVorbis(key, value)
		}
	}
	return m
}

// setVorbis applies one Vorbis comment. Keys are case-insensitive and the
// first non-empty value wins.
func (m *Metadata) setVorbis(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	var dst *string
	switch strings.ToUpper(key) {
	case "TITLE":
		dst = &m.Title
	case "ARTIST":
		dst = &m.Artist
	case "ALBUM":
		dst = &m.Album
	default:
		return
	}
	if *dst == "" {
		*dst = value
	}
}

// Subtitle joins artist and album, skipping whichever is empty.
func (m Metadata) Subtitle() string {
	switch {
	case m.Artist != "" && m.Album != "":
		return m.Artist + " - " + m.Album
	case m.Artist != "":
		return m.Artist
	default:
		return m.Album
	}
}
