package pgcodec

// OID identifies a Postgres type on the wire. Result columns carry their
// type OID in the response metadata (the "dataTypeID" field) and the registry
// uses it to select a codec.
type OID uint32

// Scalar type OIDs.
const (
	OIDBool        OID = 16
	OIDBytea       OID = 17
	OIDName        OID = 19
	OIDInt8        OID = 20
	OIDInt2        OID = 21
	OIDInt4        OID = 23
	OIDText        OID = 25
	OIDJSON        OID = 114
	OIDCIDR        OID = 650
	OIDFloat4      OID = 700
	OIDFloat8      OID = 701
	OIDInet        OID = 869
	OIDBPChar      OID = 1042
	OIDVarchar     OID = 1043
	OIDDate        OID = 1082
	OIDTime        OID = 1083
	OIDTimestamp   OID = 1114
	OIDTimestamptz OID = 1184
	OIDInterval    OID = 1186
	OIDNumeric     OID = 1700
	OIDUUID        OID = 2950
	OIDJSONB       OID = 3802
)

// One-dimensional array type OIDs.
const (
	OIDBoolArray        OID = 1000
	OIDByteaArray       OID = 1001
	OIDInt2Array        OID = 1005
	OIDInt4Array        OID = 1007
	OIDTextArray        OID = 1009
	OIDVarcharArray     OID = 1015
	OIDInt8Array        OID = 1016
	OIDFloat4Array      OID = 1021
	OIDFloat8Array      OID = 1022
	OIDTimestampArray   OID = 1115
	OIDDateArray        OID = 1182
	OIDTimestamptzArray OID = 1185
	OIDNumericArray     OID = 1231
	OIDUUIDArray        OID = 2951
	OIDJSONArray        OID = 199
	OIDJSONBArray       OID = 3807
)

// arrayElem maps an array OID to the OID of its element type, so array
// codecs can delegate each element to the element's own codec.
var arrayElem = map[OID]OID{
	OIDBoolArray:        OIDBool,
	OIDByteaArray:       OIDBytea,
	OIDInt2Array:        OIDInt2,
	OIDInt4Array:        OIDInt4,
	OIDTextArray:        OIDText,
	OIDVarcharArray:     OIDVarchar,
	OIDInt8Array:        OIDInt8,
	OIDFloat4Array:      OIDFloat4,
	OIDFloat8Array:      OIDFloat8,
	OIDTimestampArray:   OIDTimestamp,
	OIDDateArray:        OIDDate,
	OIDTimestamptzArray: OIDTimestamptz,
	OIDNumericArray:     OIDNumeric,
	OIDUUIDArray:        OIDUUID,
	OIDJSONArray:        OIDJSON,
	OIDJSONBArray:       OIDJSONB,
}
