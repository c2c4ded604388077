package aim

// UnknownPrefix is used as prefix for unknown tags.
const UnknownPrefix = "UnknownTag_"

var (
	exifFields = map[uint16]string{
		0x100:  "ImageWidth",
		0x101:  "ImageLength",
		0x102:  "BitsPerSample",
		0x103:  "Compression",
		0x106:  "PhotometricInterpretation",
		0x10e:  "ImageDescription",
		0x10f:  "Make",
		0x110:  "Model",
		0x112:  "Orientation",
		0x115:  "SamplesPerPixel",
		0x11a:  "XResolution",
		0x11b:  "YResolution",
		0x11c:  "PlanarConfiguration",
		0x128:  "ResolutionUnit",
		0x131:  "Software",
		0x132:  "DateTime",
		0x13b:  "Artist",
		0x213:  "YCbCrPositioning",
		0x8298: "Copyright",
		0x829a: "ExposureTime",
		0x829d: "FNumber",
		0x8822: "ExposureProgram",
		0x8827: "ISOSpeedRatings",
		0x9000: "ExifVersion",
		0x9003: "DateTimeOriginal",
		0x9004: "DateTimeDigitized",
		0x9201: "ShutterSpeedValue",
		0x9202: "ApertureValue",
		0x9203: "BrightnessValue",
		0x9204: "ExposureBiasValue",
		0x9205: "MaxApertureValue",
		0x9206: "SubjectDistance",
		0x9207: "MeteringMode",
		0x9208: "LightSource",
		0x9209: "Flash",
		0x920a: "FocalLength",
		0x9286: "UserComment",
		0x9290: "SubSecTime",
		0x9291: "SubSecTimeOriginal",
		0x9292: "SubSecTimeDigitized",
		0xa001: "ColorSpace",
		0xa002: "PixelXDimension",
		0xa003: "PixelYDimension",
		0xa402: "ExposureMode",
		0xa403: "WhiteBalance",
		0xa404: "DigitalZoomRatio",
		0xa405: "FocalLengthIn35mmFilm",
		0xa406: "SceneCaptureType",
		0xa408: "Contrast",
		0xa409: "Saturation",
		0xa40a: "Sharpness",
		0xa420: "ImageUniqueID",
		0xa431: "BodySerialNumber",
		0xa433: "LensMake",
		0xa434: "LensModel",
		0xa435: "LensSerialNumber",
	}

	exifFieldsGPS = map[uint16]string{
		0x0:  "GPSVersionID",
		0x1:  "GPSLatitudeRef",
		0x2:  "GPSLatitude",
		0x3:  "GPSLongitudeRef",
		0x4:  "GPSLongitude",
		0x5:  "GPSAltitudeRef",
		0x6:  "GPSAltitude",
		0x7:  "GPSTimeStamp",
		0x10: "GPSImgDirectionRef",
		0x11: "GPSImgDirection",
		0x12: "GPSMapDatum",
		0x1d: "GPSDateStamp",
	}

	exifFieldsThumbnail = map[uint16]string{
		0x201: "ThumbnailOffset",
		0x202: "ThumbnailLength",
	}
)
