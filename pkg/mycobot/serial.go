package mycobot

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/jacobsa/go-serial/serial"
)

// Frame layout: 0xFE 0xFE <len> <cmd> <payload...> 0xFA, where len counts
// the command byte, the payload, and the trailing footer.
const (
	frameHeader = 0xFE
	frameFooter = 0xFA
)

// Command bytes understood by the 320 firmware. Only the subset the gesture
// relay needs is implemented.
const (
	cmdVersion    = 0x01
	cmdPowerOn    = 0x10
	cmdPowerOff   = 0x11
	cmdIsPowerOn  = 0x12
	cmdGetAngles  = 0x20
	cmdSendAngle  = 0x21
	cmdSendAngles = 0x22
	cmdSendCoords = 0x25
)

// SerialDriver drives a myCobot 320 over its serial command protocol.
// All methods are safe for concurrent use; frames are serialized on the
// port because the firmware cannot interleave commands.
type SerialDriver struct {
	mu      sync.Mutex
	port    io.ReadWriteCloser
	powered bool
}

// Open opens the serial device and returns a driver for it.
// The 320 talks 8N1 at 115200 baud on the Pi's GPIO UART.
func Open(portName string, baud uint) (*SerialDriver, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baud,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       0,
		InterCharacterTimeout: 500,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	return NewSerialDriver(port), nil
}

// NewSerialDriver wraps an already-open port. Tests pass an in-memory pipe.
func NewSerialDriver(port io.ReadWriteCloser) *SerialDriver {
	return &SerialDriver{port: port}
}

// Close releases the serial port.
func (d *SerialDriver) Close() error {
	return d.port.Close()
}

// PowerOn powers the servos and marks the driver available.
func (d *SerialDriver) PowerOn() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeFrame(cmdPowerOn, nil); err != nil {
		return err
	}
	d.powered = true
	return nil
}

// PowerOff releases the servos. Subsequent motion commands fail with
// ErrNotPowered until PowerOn is called again.
func (d *SerialDriver) PowerOff() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeFrame(cmdPowerOff, nil); err != nil {
		return err
	}
	d.powered = false
	return nil
}

// IsPoweredOn reports the driver's power state. This is the local state
// set by PowerOn/PowerOff; it does not round-trip to the firmware.
func (d *SerialDriver) IsPoweredOn() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.powered, nil
}

// Version queries the firmware version string.
func (d *SerialDriver) Version() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeFrame(cmdVersion, nil); err != nil {
		return "", err
	}
	payload, err := d.readFrame(cmdVersion)
	if err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "unknown", nil
	}
	return fmt.Sprintf("%d.%d", payload[0]/10, payload[0]%10), nil
}

// SendAngles commands all six joints to the given angles (degrees) at the
// given speed (0-100). The call returns once the frame is written; the arm
// moves asynchronously.
func (d *SerialDriver) SendAngles(angles [NumJoints]float64, speed int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.powered {
		return ErrNotPowered
	}

	payload := make([]byte, 0, NumJoints*2+1)
	for _, a := range angles {
		payload = appendInt16(payload, centidegrees(a))
	}
	payload = append(payload, clampSpeed(speed))
	return d.writeFrame(cmdSendAngles, payload)
}

// SendAngle commands a single 1-indexed joint to the given angle.
func (d *SerialDriver) SendAngle(joint int, angle float64, speed int) error {
	if joint < 1 || joint > NumJoints {
		return fmt.Errorf("%w: %d", ErrBadJoint, joint)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.powered {
		return ErrNotPowered
	}

	payload := make([]byte, 0, 4)
	payload = append(payload, byte(joint))
	payload = appendInt16(payload, centidegrees(angle))
	payload = append(payload, clampSpeed(speed))
	return d.writeFrame(cmdSendAngle, payload)
}

// GetAngles reads the current joint angles in degrees.
func (d *SerialDriver) GetAngles() ([NumJoints]float64, error) {
	var angles [NumJoints]float64

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeFrame(cmdGetAngles, nil); err != nil {
		return angles, err
	}
	payload, err := d.readFrame(cmdGetAngles)
	if err != nil {
		return angles, err
	}
	if len(payload) < NumJoints*2 {
		return angles, fmt.Errorf("%w: angle payload %d bytes", ErrBadFrame, len(payload))
	}
	for i := 0; i < NumJoints; i++ {
		raw := int16(binary.BigEndian.Uint16(payload[i*2:]))
		angles[i] = float64(raw) / 100
	}
	return angles, nil
}

// SendCoords commands a Cartesian move. Coordinates are x, y, z in mm and
// rx, ry, rz in degrees; mode 0 is angular, 1 linear interpolation.
func (d *SerialDriver) SendCoords(coords [NumJoints]float64, speed, mode int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.powered {
		return ErrNotPowered
	}

	payload := make([]byte, 0, NumJoints*2+2)
	for i, c := range coords {
		if i < 3 {
			// Positions are framed in 0.1mm units.
			payload = appendInt16(payload, int16(c*10))
		} else {
			payload = appendInt16(payload, centidegrees(c))
		}
	}
	payload = append(payload, clampSpeed(speed), byte(mode))
	return d.writeFrame(cmdSendCoords, payload)
}

// writeFrame frames and writes one command. Callers hold d.mu.
func (d *SerialDriver) writeFrame(cmd byte, payload []byte) error {
	frame := make([]byte, 0, len(payload)+5)
	frame = append(frame, frameHeader, frameHeader, byte(len(payload)+2), cmd)
	frame = append(frame, payload...)
	frame = append(frame, frameFooter)

	if _, err := d.port.Write(frame); err != nil {
		return fmt.Errorf("serial write failed: %w", err)
	}
	return nil
}

// readFrame scans for the next response frame matching cmd and returns its
// payload. Callers hold d.mu.
func (d *SerialDriver) readFrame(cmd byte) ([]byte, error) {
	// Scan for the two-byte header, tolerating leading noise.
	var prev byte
	one := make([]byte, 1)
	for {
		if _, err := io.ReadFull(d.port, one); err != nil {
			return nil, fmt.Errorf("serial read failed: %w", err)
		}
		if prev == frameHeader && one[0] == frameHeader {
			break
		}
		prev = one[0]
	}

	head := make([]byte, 2)
	if _, err := io.ReadFull(d.port, head); err != nil {
		return nil, fmt.Errorf("serial read failed: %w", err)
	}
	length, gotCmd := int(head[0]), head[1]
	if length < 2 {
		return nil, fmt.Errorf("%w: length %d", ErrBadFrame, length)
	}
	if gotCmd != cmd {
		return nil, fmt.Errorf("%w: expected command 0x%02x, got 0x%02x", ErrBadFrame, cmd, gotCmd)
	}

	// length counts cmd + payload + footer.
	rest := make([]byte, length-1)
	if _, err := io.ReadFull(d.port, rest); err != nil {
		return nil, fmt.Errorf("serial read failed: %w", err)
	}
	if rest[len(rest)-1] != frameFooter {
		return nil, fmt.Errorf("%w: missing footer", ErrBadFrame)
	}
	return rest[:len(rest)-1], nil
}

// centidegrees converts degrees to the int16 wire unit.
func centidegrees(deg float64) int16 {
	return int16(deg * 100)
}

// appendInt16 appends v big-endian.
func appendInt16(b []byte, v int16) []byte {
	return append(b, byte(uint16(v)>>8), byte(uint16(v)))
}

// clampSpeed restricts speed to the firmware's 0-100 range.
func clampSpeed(speed int) byte {
	if speed < 0 {
		speed = 0
	}
	if speed > 100 {
		speed = 100
	}
	return byte(speed)
}
