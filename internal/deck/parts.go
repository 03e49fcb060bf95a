// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"fmt"
	"strings"
	"time"
)

const (
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	nsA   = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	nsR   = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	nsP   = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	nsRel = `xmlns="http://schemas.openxmlformats.org/package/2006/relationships"`

	relOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"

	// Presentation relationship IDs; slide N uses rId(firstSlideRel+N-1).
	masterRel     = "rId1"
	themeRel      = "rId2"
	firstSlideRel = 3
)

// MediaType is the MIME type of a .pptx file.
const MediaType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

type relationship struct {
	id, typ, target string
}

func relsXML(rels ...relationship) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships ` + nsRel + `>`)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, r.target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func contentTypesXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	override := func(part, ct string) {
		fmt.Fprintf(&b, `<Override PartName="%s" ContentType="%s"/>`, part, ct)
	}
	override("/ppt/presentation.xml", ctPresentation)
	override("/ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	override("/ppt/slideLayouts/slideLayout1.xml", ctSlideLayout)
	override("/ppt/theme/theme1.xml", ctTheme)
	for i := 1; i <= slideCount; i++ {
		override(fmt.Sprintf("/ppt/slides/slide%d.xml", i), ctSlide)
	}
	override("/docProps/core.xml", ctCoreProps)
	override("/docProps/app.xml", ctExtProps)
	b.WriteString(`</Types>`)
	return b.String()
}

func rootRelsXML() string {
	return relsXML(
		relationship{"rId1", relOfficeDoc, "ppt/presentation.xml"},
		relationship{"rId2", relCoreProps, "docProps/core.xml"},
		relationship{"rId3", relExtProps, "docProps/app.xml"},
	)
}

func corePropsXML(title string, now time.Time) string {
	ts := now.UTC().Format(time.RFC3339)
	return xmlHeader +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(title) + `</dc:title>` +
		`<dc:creator>pdf2deck</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

func appPropsXML(slideCount int) string {
	return xmlHeader +
		`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
		`<Application>pdf2deck</Application>` +
		fmt.Sprintf(`<Slides>%d</Slides>`, slideCount) +
		`<Notes>0</Notes><HiddenSlides>0</HiddenSlides>` +
		`</Properties>`
}

func presentationXML(width, height EMU, slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation ` + nsA + ` ` + nsR + ` ` + nsP + ` saveSubsetFonts="1">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="` + masterRel + `"/></p:sldMasterIdLst>`)
	if slideCount > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := 0; i < slideCount; i++ {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, firstSlideRel+i)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, width, height)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`<p:defaultTextStyle/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(slideCount int) string {
	rels := []relationship{
		{masterRel, relSlideMaster, "slideMasters/slideMaster1.xml"},
		{themeRel, relTheme, "theme/theme1.xml"},
	}
	for i := 0; i < slideCount; i++ {
		rels = append(rels, relationship{
			fmt.Sprintf("rId%d", firstSlideRel+i), relSlide, fmt.Sprintf("slides/slide%d.xml", i+1),
		})
	}
	return relsXML(rels...)
}

const emptyGroup = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

func slideMasterXML() string {
	return xmlHeader +
		`<p:sldMaster ` + nsA + ` ` + nsR + ` ` + nsP + `>` +
		`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>` +
		`<p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
		`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
		`<p:txStyles><p:titleStyle/><p:bodyStyle/><p:otherStyle/></p:txStyles>` +
		`</p:sldMaster>`
}

func slideMasterRelsXML() string {
	return relsXML(
		relationship{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"},
		relationship{"rId2", relTheme, "../theme/theme1.xml"},
	)
}

func slideLayoutXML() string {
	return xmlHeader +
		`<p:sldLayout ` + nsA + ` ` + nsR + ` ` + nsP + ` type="blank" preserve="1">` +
		`<p:cSld name="Blank"><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
		`</p:sldLayout>`
}

func slideLayoutRelsXML() string {
	return relsXML(relationship{"rId1", relSlideMaster, "../slideMasters/slideMaster1.xml"})
}

func slideRelsXML() string {
	return relsXML(relationship{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"})
}

func themeXML() string {
	solid := func(clr string) string { return `<a:solidFill><a:schemeClr val="` + clr + `"/></a:solidFill>` }
	ln := func(w int) string {
		return fmt.Sprintf(`<a:ln w="%d" cap="flat" cmpd="sng" algn="ctr"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:prstDash val="solid"/></a:ln>`, w)
	}
	fonts := func(face string) string {
		return `<a:latin typeface="` + face + `"/><a:ea typeface=""/><a:cs typeface=""/>`
	}
	return xmlHeader +
		`<a:theme ` + nsA + ` name="pdf2deck">` +
		`<a:themeElements>` +
		`<a:clrScheme name="pdf2deck">` +
		`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
		`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="44546A"/></a:dk2>` +
		`<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="0078D4"/></a:accent1>` +
		`<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>` +
		`<a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>` +
		`<a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
		`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
		`</a:clrScheme>` +
		`<a:fontScheme name="pdf2deck">` +
		`<a:majorFont>` + fonts("Calibri Light") + `</a:majorFont>` +
		`<a:minorFont>` + fonts("Calibri") + `</a:minorFont>` +
		`</a:fontScheme>` +
		`<a:fmtScheme name="pdf2deck">` +
		`<a:fillStyleLst>` + solid("phClr") + solid("phClr") + solid("phClr") + `</a:fillStyleLst>` +
		`<a:lnStyleLst>` + ln(6350) + ln(12700) + ln(19050) + `</a:lnStyleLst>` +
		`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
		`<a:bgFillStyleLst>` + solid("phClr") + solid("phClr") + solid("phClr") + `</a:bgFillStyleLst>` +
		`</a:fmtScheme>` +
		`</a:themeElements>` +
		`<a:objectDefaults/><a:extraClrSchemeLst/>` +
		`</a:theme>`
}
