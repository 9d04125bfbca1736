package postgres

const eventColumns = `id, organizer_id, title, description, event_date,
       location, city, state, latitude, longitude, capacity,
       status, is_paid, price, image, created_at, updated_at`

const insertEventSQL = `
INSERT INTO events (
  id, organizer_id, title, description, event_date,
  location, city, state, latitude, longitude, capacity,
  status, is_paid, price, image, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
`

const getEventSQL = `
SELECT ` + eventColumns + `
FROM events WHERE id = $1
`

const selectEventForUpdateSQL = `
SELECT ` + eventColumns + `
FROM events WHERE id = $1
FOR UPDATE
`

// organizer_id and created_at are never rewritten.
const updateEventSQL = `
UPDATE events SET
  title=$2, description=$3, event_date=$4,
  location=$5, city=$6, state=$7, latitude=$8, longitude=$9, capacity=$10,
  status=$11, is_paid=$12, price=$13, image=$14, updated_at=$15
WHERE id=$1
`

const deleteEventSQL = `DELETE FROM events WHERE id = $1`

const selectActiveRegistrationsSQL = `
SELECT r.id, r.event_id, r.user_id, r.status, r.created_at,
       u.id, u.name, u.email
FROM registrations r
JOIN users u ON u.id = r.user_id
WHERE r.event_id = ANY($1::uuid[])
  AND r.status = $2
ORDER BY r.created_at ASC, r.id ASC
`
