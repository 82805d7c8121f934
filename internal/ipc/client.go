package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/floatwin/internal/capability"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
	"github.com/1broseidon/floatwin/internal/window"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the daemon listening on socketPath.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(command CommandType, payload any) (*Response, error) {
	req := &Request{ID: uuid.NewString(), Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = raw
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.ID != "" && resp.ID != req.ID {
		return nil, fmt.Errorf("response id %s does not match request %s", resp.ID, req.ID)
	}
	if resp.Status == "ERROR" {
		return nil, &DaemonError{Code: resp.Code, Message: resp.Error}
	}
	return &resp, nil
}

func (c *Client) call(command CommandType, payload any, out any) error {
	resp, err := c.sendRequest(command, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Status retrieves daemon and window status.
func (c *Client) Status() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Enable detaches the content into a floating window.
func (c *Client) Enable() (bool, error) {
	var data ToggleData
	err := c.call(CommandEnable, nil, &data)
	return data.Floating, err
}

// Disable destroys the floating window.
func (c *Client) Disable() (bool, error) {
	var data ToggleData
	err := c.call(CommandDisable, nil, &data)
	return data.Floating, err
}

// Resize resizes the floating window. With force set it overrides the
// window's constraints and turns auto-size off.
func (c *Client) Resize(size platform.Size, force bool) (*resize.Result, error) {
	var res resize.Result
	payload := ResizePayload{Width: size.Width, Height: size.Height, Force: force}
	if err := c.call(CommandResize, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ReportContentSize reports the hosted application's preferred size and
// returns the window status after the daemon refit to it.
func (c *Client) ReportContentSize(size platform.Size) (*window.Status, error) {
	var st window.Status
	if err := c.call(CommandContentSize, ContentSizePayload{Width: size.Width, Height: size.Height}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Geometry returns the window's last authoritative size.
func (c *Client) Geometry() (platform.Size, error) {
	var size platform.Size
	err := c.call(CommandGeometry, nil, &size)
	return size, err
}

// HasMethod reports whether typeName exposes method.
func (c *Client) HasMethod(typeName, method string) (bool, error) {
	var data HasMethodData
	err := c.call(CommandHasMethod, HasMethodPayload{Type: typeName, Method: method}, &data)
	return data.Available, err
}

// Capabilities lists every registered method.
func (c *Client) Capabilities() ([]capability.Info, error) {
	var data CapabilitiesData
	if err := c.call(CommandCapabilities, nil, &data); err != nil {
		return nil, err
	}
	return data.Methods, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.Status()
	return err
}
