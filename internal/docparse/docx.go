package docparse

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DOCX is a zip archive whose word/document.xml holds the paragraph stream.
// None of our upstream tooling parses OOXML natively, and the fixed subset
// we need (paragraph text + pStyle) decodes cleanly with encoding/xml, so
// the reader stays dependency-free.

var headingStyleRe = regexp.MustCompile(`(?i)^heading\s*([1-6])$`)

type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Properties docxParaProps `xml:"pPr"`
	Runs       []docxRun     `xml:"r"`
}

type docxParaProps struct {
	Style docxStyle `xml:"pStyle"`
}

type docxStyle struct {
	Val string `xml:"val,attr"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

func readDocx(path string) ([]rawBlock, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml missing")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	var doc docxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document.xml: %w", err)
	}

	blocks := make([]rawBlock, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, run := range para.Runs {
			for _, t := range run.Texts {
				sb.WriteString(t)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		blocks = append(blocks, rawBlock{
			level:  styleToLevel(para.Properties.Style.Val),
			text:   text,
			markup: para.Properties.Style.Val,
		})
	}
	return blocks, nil
}

func styleToLevel(style string) int {
	if style == "" {
		return 0
	}
	if strings.EqualFold(style, "Title") {
		return 1
	}
	if m := headingStyleRe.FindStringSubmatch(style); m != nil {
		return int(m[1][0] - '0')
	}
	return 0
}
