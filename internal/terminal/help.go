package terminal

import (
	"context"

	"github.com/iliyamo/airline-pnr-terminal/internal/session"
)

const helpText = `*****************************************************
*           COMMAND REFERENCE - SABRE GDS            *
*****************************************************

  RETRIEVE PNR
  -LASTNAME/FIRST     Search by passenger name
  *ABCDEF             Retrieve by record locator
  *1, *2, ...         Select from name search results

  DISPLAY PNR
  *B                  Full booking display
  *I                  Itinerary only
  *N                  Passenger names only
  *P                  Phone contacts only
  *H                  PNR history log

  AVAILABILITY
  1DDMMMCCCYYY        Flight search
                      (seats/date/origin/dest)
                      Example: 125DECSFOJFK

  SELL / MODIFY
  0NCS                Sell N seats, class C, line S
                      Example: 01Y2 (1 seat, Y class,
                      availability line 2)
  XN                  Cancel segment N (e.g. X1)
  XN-M                Cancel segments N through M
  XN/M                Cancel segments N and M

  BUILD PNR
  -LASTNAME/FIRST     Add passenger name
  9NNN-NNN-NNNN-T     Add phone (T=H/B/M)
  6NAME               Received from (required)
  7TAWDDMMM/          Ticketing time limit

  TRANSACTION
  ET                  End transaction (save)
  ER                  End and redisplay
  I                   Ignore (discard changes)

  OTHER
  HELP or ?           This screen
  DEMO                Guided walkthrough
  WHY                 ...you'll see

*****************************************************`

const demoText = `*****************************************************
*              GUIDED WALKTHROUGH                    *
*         "PUT ME ON THE EARLIER FLIGHT"             *
*****************************************************

A PASSENGER NAMED SMITH/JOHN APPROACHES THE GATE.
HE WANTS TO SWITCH TO AN EARLIER FLIGHT TO JFK.

SOUNDS SIMPLE, RIGHT? LET'S FIND OUT.

STEP 1: FIND THE PASSENGER
  TYPE:  -SMITH/JOHN
  (SEARCH ALL PNRS FOR THIS NAME)

STEP 2: THERE ARE MULTIPLE SMITHS. SELECT THE RIGHT ONE.
  TYPE:  *1  (OR *2, *3, ETC.)

STEP 3: VERIFY THE BOOKING
  TYPE:  *B  (FULL PNR DISPLAY)

STEP 4: CHECK CURRENT ITINERARY
  TYPE:  *I  (SEGMENTS ONLY)

STEP 5: SEARCH FOR EARLIER FLIGHTS
  TYPE:  125MARSFOJFK
  (1 SEAT, 25MAR, SFO TO JFK)

STEP 6: CANCEL THE CURRENT SEGMENT
  TYPE:  X1  (CANCEL SEGMENT 1)

STEP 7: SELL A SEAT ON THE NEW FLIGHT
  TYPE:  01Y1  (1 SEAT, Y CLASS, LINE 1)
  NOTE: IF THE CLASS IS SOLD OUT,
  YOU'LL NEED TO TRY A DIFFERENT CLASS

STEP 8: VERIFY THE NEW ITINERARY
  TYPE:  *I

STEP 9: SET RECEIVED FROM (REQUIRED!)
  TYPE:  6SMITH/J

STEP 10: SAVE THE CHANGES
  TYPE:  ET  (END TRANSACTION)
  WATCH FOR ERRORS - YOU MAY BE MISSING
  REQUIRED FIELDS

STEP 11: RE-RETRIEVE TO VERIFY
  TYPE:  *ABCDEF  (USE THE RECORD LOCATOR)

THAT'S 11+ COMMANDS AND 100+ KEYSTROKES
FOR "JUST PUT ME ON THE EARLIER FLIGHT"

TRY IT YOURSELF! START WITH:  -SMITH/JOHN
*****************************************************`

func (t *Terminal) handleHelp(context.Context, *session.Session, []string) (Result, error) {
	return Result{Output: helpText}, nil
}

func (t *Terminal) handleDemo(context.Context, *session.Session, []string) (Result, error) {
	return Result{Output: demoText, IsDemo: true}, nil
}
