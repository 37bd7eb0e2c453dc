package augstream

/*------------------------------------------------------------------------------
* crc.go : checksum and CRC validators used by the framer (§4.1, §4.4)
*
* Table-driven CRC-24Q and CRC-16-CCITT are generalized from
* gnssgo/src/common.go's Rtk_CRC24q/Rtk_CRC16 (themselves ports of RTKLIB's
* crc24q()/crc16()); the tables are built once at init time rather than
* checked in as literals, since this module has no build-time code
* generation step. The reflected CRC-32 used by NovAtel OEM7 headers
* follows the same polynomial (0xEDB88320) noted in Rtk_CRC32's doc comment.
 */

const (
	polyCRC24Q uint32 = 0x1864CFB
	polyCRC16  uint16 = 0x1021
	polyCRC32  uint32 = 0xEDB88320
)

var tblCRC24Q [256]uint32
var tblCRC16 [256]uint16
var tblCRC32 [256]uint32

func init() {
	for i := 0; i < 256; i++ {
		tblCRC24Q[i] = crc24qByte(uint32(i) << 16)
	}
	for i := 0; i < 256; i++ {
		tblCRC16[i] = crc16Byte(uint16(i) << 8)
	}
	for i := 0; i < 256; i++ {
		c := uint32(i)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = polyCRC32 ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		tblCRC32[i] = c
	}
}

func crc24qByte(v uint32) uint32 {
	for i := 0; i < 8; i++ {
		if v&0x800000 != 0 {
			v = (v << 1) ^ polyCRC24Q
		} else {
			v <<= 1
		}
	}
	return v & 0xFFFFFF
}

func crc16Byte(v uint16) uint16 {
	for i := 0; i < 8; i++ {
		if v&0x8000 != 0 {
			v = (v << 1) ^ polyCRC16
		} else {
			v <<= 1
		}
	}
	return v
}

// CRC24Q computes the RTCM 3 / SBAS CRC-24Q parity over buf.
func CRC24Q(buf []uint8) uint32 {
	var crc uint32
	for _, b := range buf {
		crc = ((crc << 8) & 0xFFFFFF) ^ tblCRC24Q[(crc>>16)^uint32(b)]
	}
	return crc
}

// CRC16CCITT computes the Septentrio SBF block CRC over buf.
func CRC16CCITT(buf []uint8) uint16 {
	var crc uint16
	for _, b := range buf {
		crc = (crc << 8) ^ tblCRC16[(crc>>8)^uint16(b)]
	}
	return crc
}

// CRC32Reflected computes the reflected CRC-32 (poly 0xEDB88320) used by
// NovAtel OEM7 binary message trailers.
func CRC32Reflected(buf []uint8) uint32 {
	crc := uint32(0)
	for _, b := range buf {
		crc = tblCRC32[(crc^uint32(b))&0xFF] ^ (crc >> 8)
	}
	return crc
}

// Fletcher8 computes the two 8-bit running sums used by the u-blox UBX
// checksum (class/ID/length/payload region), grounded on ublox.go's
// checksum_ublox loop in the teacher.
func Fletcher8(buf []uint8) (ckA, ckB uint8) {
	for _, b := range buf {
		ckA += b
		ckB += ckA
	}
	return
}

// AllystarChecksum computes the vendor's Fletcher-like 16-bit-pair
// checksum over the Allystar frame region (sync-excluded, length through
// payload): running sum and sum-of-sums, each mod 256, per the vendor table
// in spec.md §4.1.
func AllystarChecksum(buf []uint8) (sum, sumOfSums uint8) {
	for _, b := range buf {
		sum += b
		sumOfSums += sum
	}
	return
}
