package ddf

// Frequently used property numbers.
const (
	PropTransformRotation         uint16 = 4
	PropProtectionLockAspectRatio uint16 = 120
	PropProtectionLockAgainstGrp  uint16 = 127
	PropTextTextID                uint16 = 128
	PropTextSizeTextToFitShape    uint16 = 191
	PropBlipBlipToDisplay         uint16 = 260
	PropBlipBlipFilename          uint16 = 261
	PropGeometryLeft              uint16 = 320
	PropGeometryTop               uint16 = 321
	PropGeometryRight             uint16 = 322
	PropGeometryBottom            uint16 = 323
	PropGeometryShapePath         uint16 = 324
	PropGeometryVertices          uint16 = 325
	PropGeometrySegmentInfo       uint16 = 326
	PropGeometryFillOK            uint16 = 383
	PropFillFillType              uint16 = 384
	PropFillFillColor             uint16 = 385
	PropFillFillOpacity           uint16 = 386
	PropFillFillBackColor         uint16 = 387
	PropFillBlipFilename          uint16 = 391
	PropFillShadeColors           uint16 = 407
	PropFillNoFillHitTest         uint16 = 447
	PropLineStyleColor            uint16 = 448
	PropLineStyleBackColor        uint16 = 450
	PropLineStyleLineWidth        uint16 = 459
	PropLineStyleLineDashStyle    uint16 = 463
	PropLineStyleNoLineDrawDash   uint16 = 511
	PropShadowStyleColor          uint16 = 513
	PropShapeBackgroundShape      uint16 = 831
	PropGroupShapeShapeName       uint16 = 896
	PropGroupShapeDescription     uint16 = 897
	PropGroupShapeHyperlink       uint16 = 898
	PropGroupShapeWrapPolygon     uint16 = 899
	PropGroupShapePrint           uint16 = 959
)

type propertyKind uint8

const (
	kindSimple propertyKind = iota
	kindBool
	kindRGB
	kindShapePath
	kindArray
)

type propertyMeta struct {
	name string
	kind propertyKind
}

// PropertyName returns the descriptive name of a property number, or
// "unknown".
func PropertyName(number uint16) string {
	if m, ok := propertyMetadata[number&propertyNumberMask]; ok {
		return m.name
	}
	return "unknown"
}

func propertyKindOf(number uint16) propertyKind {
	return propertyMetadata[number&propertyNumberMask].kind
}

var propertyMetadata = map[uint16]propertyMeta{
	4:   {"transform.rotation", kindSimple},
	119: {"protection.lockrotation", kindSimple},
	120: {"protection.lockaspectratio", kindSimple},
	121: {"protection.lockposition", kindSimple},
	122: {"protection.lockagainstselect", kindSimple},
	123: {"protection.lockcropping", kindSimple},
	124: {"protection.lockvertices", kindSimple},
	125: {"protection.locktext", kindSimple},
	126: {"protection.lockadjusthandles", kindSimple},
	127: {"protection.lockagainstgrouping", kindBool},
	128: {"text.textid", kindSimple},
	129: {"text.textleft", kindSimple},
	130: {"text.texttop", kindSimple},
	131: {"text.textright", kindSimple},
	132: {"text.textbottom", kindSimple},
	133: {"text.wraptext", kindSimple},
	134: {"text.scaletext", kindSimple},
	135: {"text.anchortext", kindSimple},
	136: {"text.textflow", kindSimple},
	137: {"text.fontrotation", kindSimple},
	138: {"text.idofnextshape", kindSimple},
	139: {"text.bidir", kindSimple},
	187: {"text.singleclickselects", kindSimple},
	188: {"text.usehostmargins", kindSimple},
	189: {"text.rotatetextwithshape", kindSimple},
	190: {"text.sizeshapetofittext", kindSimple},
	191: {"text.sizetexttofitshape", kindBool},
	192: {"geotext.unicode", kindSimple},
	193: {"geotext.rtftext", kindSimple},
	194: {"geotext.alignmentoncurve", kindSimple},
	195: {"geotext.defaultpointsize", kindSimple},
	196: {"geotext.textspacing", kindSimple},
	197: {"geotext.fontfamilyname", kindSimple},
	240: {"geotext.reverseroworder", kindSimple},
	241: {"geotext.hastexteffect", kindSimple},
	242: {"geotext.rotatecharacters", kindSimple},
	243: {"geotext.kerncharacters", kindSimple},
	244: {"geotext.tightortrack", kindSimple},
	245: {"geotext.stretchtofitshape", kindSimple},
	246: {"geotext.charboundingbox", kindSimple},
	247: {"geotext.scaletextonpath", kindSimple},
	248: {"geotext.stretchcharheight", kindSimple},
	249: {"geotext.nomeasurealongpath", kindSimple},
	250: {"geotext.boldfont", kindSimple},
	251: {"geotext.italicfont", kindSimple},
	252: {"geotext.underlinefont", kindSimple},
	253: {"geotext.shadowfont", kindSimple},
	254: {"geotext.smallcapsfont", kindSimple},
	255: {"geotext.strikethroughfont", kindSimple},
	256: {"blip.cropfromtop", kindSimple},
	257: {"blip.cropfrombottom", kindSimple},
	258: {"blip.cropfromleft", kindSimple},
	259: {"blip.cropfromright", kindSimple},
	260: {"blip.bliptodisplay", kindSimple},
	261: {"blip.blipfilename", kindSimple},
	262: {"blip.blipflags", kindSimple},
	263: {"blip.transparentcolor", kindSimple},
	264: {"blip.contrastsetting", kindSimple},
	265: {"blip.brightnesssetting", kindSimple},
	266: {"blip.gamma", kindSimple},
	267: {"blip.pictureid", kindSimple},
	268: {"blip.doublemod", kindSimple},
	269: {"blip.picturefillmod", kindSimple},
	270: {"blip.pictureline", kindSimple},
	271: {"blip.printblip", kindSimple},
	272: {"blip.printblipfilename", kindSimple},
	273: {"blip.printflags", kindSimple},
	316: {"blip.nohittestpicture", kindSimple},
	317: {"blip.picturegray", kindSimple},
	318: {"blip.picturebilevel", kindSimple},
	319: {"blip.pictureactive", kindSimple},
	320: {"geometry.left", kindSimple},
	321: {"geometry.top", kindSimple},
	322: {"geometry.right", kindSimple},
	323: {"geometry.bottom", kindSimple},
	324: {"geometry.shapepath", kindShapePath},
	325: {"geometry.vertices", kindArray},
	326: {"geometry.segmentinfo", kindArray},
	327: {"geometry.adjustvalue", kindSimple},
	328: {"geometry.adjust2value", kindSimple},
	329: {"geometry.adjust3value", kindSimple},
	330: {"geometry.adjust4value", kindSimple},
	331: {"geometry.adjust5value", kindSimple},
	332: {"geometry.adjust6value", kindSimple},
	333: {"geometry.adjust7value", kindSimple},
	334: {"geometry.adjust8value", kindSimple},
	335: {"geometry.adjust9value", kindSimple},
	336: {"geometry.adjust10value", kindSimple},
	378: {"geometry.shadowOK", kindSimple},
	379: {"geometry.3dok", kindSimple},
	380: {"geometry.lineok", kindSimple},
	381: {"geometry.geotextok", kindSimple},
	382: {"geometry.fillshadeshapeok", kindSimple},
	383: {"geometry.fillok", kindBool},
	384: {"fill.filltype", kindSimple},
	385: {"fill.fillcolor", kindRGB},
	386: {"fill.fillopacity", kindSimple},
	387: {"fill.fillbackcolor", kindRGB},
	388: {"fill.backopacity", kindSimple},
	389: {"fill.crmod", kindSimple},
	390: {"fill.patterntexture", kindSimple},
	391: {"fill.blipfilename", kindSimple},
	392: {"fill.blipflags", kindSimple},
	393: {"fill.width", kindSimple},
	394: {"fill.height", kindSimple},
	395: {"fill.angle", kindSimple},
	396: {"fill.focus", kindSimple},
	397: {"fill.toleft", kindSimple},
	398: {"fill.totop", kindSimple},
	399: {"fill.toright", kindSimple},
	400: {"fill.tobottom", kindSimple},
	401: {"fill.rectleft", kindSimple},
	402: {"fill.recttop", kindSimple},
	403: {"fill.rectright", kindSimple},
	404: {"fill.rectbottom", kindSimple},
	405: {"fill.dztype", kindSimple},
	406: {"fill.shadepreset", kindSimple},
	407: {"fill.shadecolors", kindArray},
	408: {"fill.originx", kindSimple},
	409: {"fill.originy", kindSimple},
	410: {"fill.shapeoriginx", kindSimple},
	411: {"fill.shapeoriginy", kindSimple},
	412: {"fill.shadetype", kindSimple},
	443: {"fill.filled", kindSimple},
	444: {"fill.hittestfill", kindSimple},
	445: {"fill.shape", kindSimple},
	446: {"fill.userect", kindSimple},
	447: {"fill.nofillhittest", kindBool},
	448: {"linestyle.color", kindRGB},
	449: {"linestyle.opacity", kindSimple},
	450: {"linestyle.backcolor", kindRGB},
	451: {"linestyle.crmod", kindSimple},
	452: {"linestyle.linetype", kindSimple},
	453: {"linestyle.fillblip", kindSimple},
	454: {"linestyle.fillblipname", kindSimple},
	455: {"linestyle.fillblipflags", kindSimple},
	456: {"linestyle.fillwidth", kindSimple},
	457: {"linestyle.fillheight", kindSimple},
	458: {"linestyle.filldztype", kindSimple},
	459: {"linestyle.linewidth", kindSimple},
	460: {"linestyle.linemiterlimit", kindSimple},
	461: {"linestyle.linestyle", kindSimple},
	462: {"linestyle.linedashing", kindSimple},
	463: {"linestyle.linedashstyle", kindArray},
	464: {"linestyle.linestartarrowhead", kindSimple},
	465: {"linestyle.lineendarrowhead", kindSimple},
	466: {"linestyle.linestartarrowwidth", kindSimple},
	467: {"linestyle.lineestartarrowlength", kindSimple},
	468: {"linestyle.lineendarrowwidth", kindSimple},
	469: {"linestyle.lineendarrowlength", kindSimple},
	470: {"linestyle.linejoinstyle", kindSimple},
	471: {"linestyle.lineendcapstyle", kindSimple},
	507: {"linestyle.arrowheadsok", kindSimple},
	508: {"linestyle.anyline", kindSimple},
	509: {"linestyle.hitlinetest", kindSimple},
	510: {"linestyle.linefillshape", kindSimple},
	511: {"linestyle.nolinedrawdash", kindBool},
	512: {"shadowstyle.type", kindSimple},
	513: {"shadowstyle.color", kindRGB},
	514: {"shadowstyle.highlight", kindSimple},
	515: {"shadowstyle.crmod", kindSimple},
	516: {"shadowstyle.opacity", kindSimple},
	517: {"shadowstyle.offsetx", kindSimple},
	518: {"shadowstyle.offsety", kindSimple},
	519: {"shadowstyle.secondoffsetx", kindSimple},
	520: {"shadowstyle.secondoffsety", kindSimple},
	521: {"shadowstyle.scalextox", kindSimple},
	522: {"shadowstyle.scaleytox", kindSimple},
	523: {"shadowstyle.scalextoy", kindSimple},
	524: {"shadowstyle.scaleytoy", kindSimple},
	525: {"shadowstyle.perspectivex", kindSimple},
	526: {"shadowstyle.perspectivey", kindSimple},
	527: {"shadowstyle.weight", kindSimple},
	528: {"shadowstyle.originx", kindSimple},
	529: {"shadowstyle.originy", kindSimple},
	574: {"shadowstyle.shadow", kindSimple},
	575: {"shadowstyle.shadowobsured", kindSimple},
	576: {"perspective.type", kindSimple},
	577: {"perspective.offsetx", kindSimple},
	578: {"perspective.offsety", kindSimple},
	579: {"perspective.scalextox", kindSimple},
	580: {"perspective.scaleytox", kindSimple},
	581: {"perspective.scalextoy", kindSimple},
	582: {"perspective.scaleytoy", kindSimple},
	583: {"perspective.perspectivex", kindSimple},
	584: {"perspective.perspectivey", kindSimple},
	585: {"perspective.weight", kindSimple},
	586: {"perspective.originx", kindSimple},
	587: {"perspective.originy", kindSimple},
	639: {"perspective.perspectiveon", kindSimple},
	640: {"3d.specularamount", kindSimple},
	648: {"3d.crmod", kindSimple},
	661: {"3d.diffuseamount", kindSimple},
	662: {"3d.shininess", kindSimple},
	663: {"3d.edgethickness", kindSimple},
	664: {"3d.extrudeforward", kindSimple},
	665: {"3d.extrudebackward", kindSimple},
	666: {"3d.extrudeplane", kindSimple},
	667: {"3d.extrusioncolor", kindRGB},
	700: {"3d.3deffect", kindSimple},
	701: {"3d.metallic", kindSimple},
	702: {"3d.useextrusioncolor", kindRGB},
	703: {"3d.lightface", kindSimple},
	704: {"3dstyle.yrotationangle", kindSimple},
	705: {"3dstyle.xrotationangle", kindSimple},
	706: {"3dstyle.rotationaxisx", kindSimple},
	707: {"3dstyle.rotationaxisy", kindSimple},
	708: {"3dstyle.rotationaxisz", kindSimple},
	709: {"3dstyle.rotationangle", kindSimple},
	710: {"3dstyle.rotationcenterx", kindSimple},
	711: {"3dstyle.rotationcentery", kindSimple},
	712: {"3dstyle.rotationcenterz", kindSimple},
	713: {"3dstyle.rendermode", kindSimple},
	714: {"3dstyle.tolerance", kindSimple},
	715: {"3dstyle.xviewpoint", kindSimple},
	716: {"3dstyle.yviewpoint", kindSimple},
	717: {"3dstyle.zviewpoint", kindSimple},
	718: {"3dstyle.originx", kindSimple},
	719: {"3dstyle.originy", kindSimple},
	720: {"3dstyle.skewangle", kindSimple},
	721: {"3dstyle.skewamount", kindSimple},
	722: {"3dstyle.ambientintensity", kindSimple},
	723: {"3dstyle.keyx", kindSimple},
	724: {"3dstyle.keyy", kindSimple},
	725: {"3dstyle.keyz", kindSimple},
	726: {"3dstyle.keyintensity", kindSimple},
	727: {"3dstyle.fillx", kindSimple},
	728: {"3dstyle.filly", kindSimple},
	729: {"3dstyle.fillz", kindSimple},
	730: {"3dstyle.fillintensity", kindSimple},
	763: {"3dstyle.constrainrotation", kindSimple},
	764: {"3dstyle.rotationcenterauto", kindSimple},
	765: {"3dstyle.parallel", kindSimple},
	766: {"3dstyle.keyharsh", kindSimple},
	767: {"3dstyle.fillharsh", kindSimple},
	769: {"shape.master", kindSimple},
	771: {"shape.connectorstyle", kindSimple},
	772: {"shape.blackandwhitesettings", kindSimple},
	773: {"shape.wmodepurebw", kindSimple},
	774: {"shape.wmodebw", kindSimple},
	826: {"shape.oleicon", kindSimple},
	827: {"shape.preferrelativeresize", kindSimple},
	828: {"shape.lockshapetype", kindSimple},
	830: {"shape.deleteattachedobject", kindSimple},
	831: {"shape.backgroundshape", kindSimple},
	832: {"callout.callouttype", kindSimple},
	833: {"callout.xycalloutgap", kindSimple},
	834: {"callout.calloutangle", kindSimple},
	835: {"callout.calloutdroptype", kindSimple},
	836: {"callout.calloutdropspecified", kindSimple},
	837: {"callout.calloutlengthspecified", kindSimple},
	889: {"callout.iscallout", kindSimple},
	890: {"callout.calloutaccentbar", kindSimple},
	891: {"callout.callouttextborder", kindSimple},
	892: {"callout.calloutminusx", kindSimple},
	893: {"callout.calloutminusy", kindSimple},
	894: {"callout.dropauto", kindSimple},
	895: {"callout.lengthspecified", kindSimple},
	896: {"groupshape.shapename", kindSimple},
	897: {"groupshape.description", kindSimple},
	898: {"groupshape.hyperlink", kindSimple},
	899: {"groupshape.wrappolygonvertices", kindArray},
	900: {"groupshape.wrapdistleft", kindSimple},
	901: {"groupshape.wrapdisttop", kindSimple},
	902: {"groupshape.wrapdistright", kindSimple},
	903: {"groupshape.wrapdistbottom", kindSimple},
	904: {"groupshape.regroupid", kindSimple},
	953: {"groupshape.editedwrap", kindSimple},
	954: {"groupshape.behinddocument", kindSimple},
	955: {"groupshape.ondblclicknotify", kindSimple},
	956: {"groupshape.isbutton", kindSimple},
	957: {"groupshape.1dadjustment", kindSimple},
	958: {"groupshape.hidden", kindSimple},
	959: {"groupshape.print", kindBool},
}
