// Package nucleo delivers robot commands to the Neato Nucleo cloud API.
//
// Every request is signed with the robot's secret key:
//
//	signature = hex(HMAC-SHA256(secret, lower(serial) + "\n" + date + "\n" + body))
//
// and sent with the headers
//
//	Accept:        application/vnd.neato.nucleo.v1
//	X-Date:        <date, RFC 1123 GMT>
//	Authorization: NEATOAPP <signature>
//
// Client implements robot.Transport, so a robot.Remote can use it directly.
package nucleo
